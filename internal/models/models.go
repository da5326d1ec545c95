// Package models defines the data shapes shared by the TFT engine:
// ledger rows, fiscal windows, line-item specifications and results,
// category ledgers and the coherence report.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountRow is one general-ledger account's summary for a given record date.
// Rows come from a balance upload (CSV) or from the account_data store.
type AccountRow struct {
	AccountNumber     string          `json:"account_number"`
	Label             string          `json:"account_label,omitempty"`
	Balance           decimal.Decimal `json:"balance"`
	TotalDebit        decimal.Decimal `json:"total_debit"`
	TotalCredit       decimal.Decimal `json:"total_credit"`
	RecordDate        time.Time       `json:"created_at"`
	FinancialReportID string          `json:"financial_report_id,omitempty"`
}

// Year returns the fiscal year the row belongs to.
func (r AccountRow) Year() int {
	return r.RecordDate.Year()
}

// DateRange is an optional external pre-filter applied before period
// partitioning. A nil bound leaves that side open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the range, bounds inclusive.
func (d DateRange) Contains(t time.Time) bool {
	if d.Start != nil && t.Before(*d.Start) {
		return false
	}
	if d.End != nil && t.After(*d.End) {
		return false
	}
	return true
}

// FiscalWindow identifies the two comparison periods derived from the data:
// N (current) and, when at least two distinct years are present, N-1 (prior).
type FiscalWindow struct {
	CurrentYear int  `json:"current_year"`
	PriorYear   int  `json:"prior_year,omitempty"`
	HasPrior    bool `json:"has_prior"`
}

// ReportingStart is January 1st of the prior year, or of the current year
// when no prior period exists.
func (w FiscalWindow) ReportingStart() time.Time {
	year := w.CurrentYear
	if w.HasPrior {
		year = w.PriorYear
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// ReportingEnd is December 31st of the current year.
func (w FiscalWindow) ReportingEnd() time.Time {
	return time.Date(w.CurrentYear, time.December, 31, 0, 0, 0, 0, time.UTC)
}
