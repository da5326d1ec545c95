// Package period splits a ledger row set into the two comparison periods
// the TFT opposes: the current fiscal year N and the prior year N-1. The
// years are derived from the data itself, never supplied externally.
package period

import (
	"sort"

	"jkouame/tft-engine/internal/enginerror"
	"jkouame/tft-engine/internal/models"
)

// Partition holds the outcome of the period split.
type Partition struct {
	Window  models.FiscalWindow
	Current []models.AccountRow
	Prior   []models.AccountRow
}

// Filter applies the optional external date-range pre-filter. Rows outside
// the range are excluded entirely, not just from aggregation.
func Filter(rows []models.AccountRow, window *models.DateRange) []models.AccountRow {
	if window == nil {
		return rows
	}
	filtered := make([]models.AccountRow, 0, len(rows))
	for _, row := range rows {
		if window.Contains(row.RecordDate) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// Split groups rows by the calendar year of their record date and selects
// the two most recent distinct years as N and N-1. With a single year the
// prior set is empty; with no rows at all the run cannot proceed and an
// InsufficientDataError is returned.
func Split(rows []models.AccountRow) (*Partition, error) {
	if len(rows) == 0 {
		return nil, &enginerror.InsufficientDataError{RowCount: 0}
	}

	byYear := make(map[int][]models.AccountRow)
	for _, row := range rows {
		year := row.Year()
		byYear[year] = append(byYear[year], row)
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	current := years[len(years)-1]
	part := &Partition{
		Window:  models.FiscalWindow{CurrentYear: current},
		Current: byYear[current],
	}
	if len(years) >= 2 {
		prior := years[len(years)-2]
		part.Window.PriorYear = prior
		part.Window.HasPrior = true
		part.Prior = byYear[prior]
	}
	return part, nil
}
