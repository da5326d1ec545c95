// Package engine orchestrates a full TFT run: date filtering, period
// partitioning, line-item evaluation, supporting-ledger aggregation and the
// coherence check, in that order.
package engine

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"jkouame/tft-engine/internal/coherence"
	"jkouame/tft-engine/internal/mastersheet"
	"jkouame/tft-engine/internal/models"
	"jkouame/tft-engine/internal/period"
	"jkouame/tft-engine/internal/tft"
)

var log = logrus.New()

// SetLogger sets the logger for this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Options configures one run. Zero-value fields fall back to the canonical
// model, the canonical categories and the default check thresholds.
type Options struct {
	Window      *models.DateRange
	Specs       []models.LineItemSpec
	Categories  []models.CategorySpec
	Tolerance   decimal.Decimal
	Materiality decimal.Decimal
}

// Result is the complete outcome of a run.
type Result struct {
	Window      models.FiscalWindow     `json:"window"`
	LineItems   *models.TFTTable        `json:"tft"`
	Ledgers     []models.CategoryLedger `json:"feuilles_maitresses"`
	Coherence   models.CoherenceReport  `json:"coherence"`
	Diagnostics []string                `json:"diagnostics,omitempty"`
}

// Generate runs the engine over a row set. The computation is pure: the same
// rows and options always produce the same result. Formula failures surface
// as diagnostics, not errors; only an empty row set aborts the run.
func Generate(rows []models.AccountRow, opts Options) (*Result, error) {
	specs := opts.Specs
	if specs == nil {
		specs = tft.DefaultModel()
	}
	categories := opts.Categories
	if categories == nil {
		categories = mastersheet.DefaultCategories()
	}

	part, err := period.Split(period.Filter(rows, opts.Window))
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"current_year": part.Window.CurrentYear,
		"prior_year":   part.Window.PriorYear,
		"has_prior":    part.Window.HasPrior,
		"rows":         len(rows),
	}).Info("Generating TFT")

	table, diags := tft.Evaluate(specs, &tft.Period{
		Current:  part.Current,
		Prior:    part.Prior,
		HasPrior: part.Window.HasPrior,
	})

	checker := coherence.NewChecker()
	checker.Sections = tft.SectionsFor(specs)
	if !opts.Tolerance.IsZero() {
		checker.Tolerance = opts.Tolerance
	}
	if !opts.Materiality.IsZero() {
		checker.Materiality = opts.Materiality
	}

	result := &Result{
		Window:    part.Window,
		LineItems: table,
		Ledgers:   mastersheet.Aggregate(categories, part.Current, part.Prior),
		Coherence: checker.Check(table),
	}
	for _, diag := range diags {
		log.WithError(diag).Warn("Line-item formula failed")
		result.Diagnostics = append(result.Diagnostics, diag.Error())
	}
	return result, nil
}
