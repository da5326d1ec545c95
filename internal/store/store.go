// Package store provides persistence for account data and generated runs.
// The primary implementation is PostgreSQL; a mock backs the tests and the
// file-only workflows.
package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"jkouame/tft-engine/internal/models"
)

var log = logrus.New()

// SetLogger allows setting a custom logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// AccountStore reads and writes the uploaded account balances.
type AccountStore interface {
	// LoadAccountRows returns the rows of a financial report, optionally
	// restricted to a date range. Nil bounds leave that side open.
	LoadAccountRows(ctx context.Context, reportID string, start, end *time.Time) ([]models.AccountRow, error)
	// CountRows returns how many rows a financial report currently has.
	CountRows(ctx context.Context, reportID string) (int, error)
	// ListReportIDs returns the distinct financial report identifiers.
	ListReportIDs(ctx context.Context) ([]string, error)
	// InsertAccountRows persists uploaded rows under a financial report.
	InsertAccountRows(ctx context.Context, reportID string, rows []models.AccountRow) error
}

// RunStore records generated TFT runs so repeat work can be skipped.
type RunStore interface {
	// SaveRun records one completed generation with its output files.
	SaveRun(ctx context.Context, run Run) error
	// HasSuccessfulRun reports whether a report already has a successful run.
	HasSuccessfulRun(ctx context.Context, reportID string) (bool, error)
}

// Store combines both persistence concerns.
type Store interface {
	AccountStore
	RunStore
}

// Run is one recorded generation.
type Run struct {
	ID          string
	ReportID    string
	IsCoherent  bool
	GeneratedAt time.Time
	Files       []RunFile
}

// RunFile is one artifact produced by a run.
type RunFile struct {
	Category string
	Path     string
}
