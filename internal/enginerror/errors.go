// Package enginerror defines the typed errors surfaced by the TFT engine.
package enginerror

import "fmt"

// InsufficientDataError reports that no ledger rows remain after filtering.
// It is fatal for the whole run: the engine produces no partial output.
type InsufficientDataError struct {
	FinancialReportID string
	RowCount          int
}

func (e *InsufficientDataError) Error() string {
	if e.FinancialReportID != "" {
		return fmt.Sprintf("insufficient data for report %s: %d rows after filtering",
			e.FinancialReportID, e.RowCount)
	}
	return fmt.Sprintf("insufficient data: %d rows after filtering", e.RowCount)
}

// FormulaError reports that a line item's formula could not be evaluated.
// The evaluator recovers by defaulting the item's amount to zero; the error
// is carried in the run diagnostics so callers can tell a genuine zero from
// a swallowed failure.
type FormulaError struct {
	Ref     string
	Formula string
	Err     error
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("formula evaluation failed for %s ('%s'): %v",
		e.Ref, e.Formula, e.Err)
}

func (e *FormulaError) Unwrap() error {
	return e.Err
}
