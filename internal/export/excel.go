// Package export renders a computed TFT run to files: an Excel workbook
// with the statement and one sheet per supporting ledger, JSON payloads in
// the legacy key format, and plain CSV through internal/common.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"jkouame/tft-engine/internal/engine"
	"jkouame/tft-engine/internal/models"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

var tftHeaders = []string{
	"Réf", "Libellé", "Montant", "Solde_N", "Solde_N-1", "Variation",
	"Débit_N", "Crédit_N", "Formule",
}

var comparisonHeaders = []string{
	"Compte", "Libellé", "Solde_N", "Solde_N-1", "Variation", "Pourcentage",
}

// WriteWorkbook writes the full run to one Excel workbook: the statement
// sheet first, then one sheet per supporting ledger.
func WriteWorkbook(result *engine.Result, path string) error {
	if result == nil {
		return fmt.Errorf("cannot export nil result")
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close workbook")
		}
	}()

	if err := writeTFTSheet(f, result.LineItems); err != nil {
		return err
	}
	for _, ledger := range result.Ledgers {
		if err := writeLedgerSheet(f, ledger); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating export directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving workbook: %w", err)
	}

	log.WithFields(logrus.Fields{
		"file":   path,
		"sheets": 1 + len(result.Ledgers),
	}).Info("Wrote TFT workbook")
	return nil
}

func writeTFTSheet(f *excelize.File, table *models.TFTTable) error {
	const sheet = "TFT"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("error creating TFT sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("error removing default sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &tftHeaders); err != nil {
		return fmt.Errorf("error writing headers: %w", err)
	}
	for i, item := range table.Rows() {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			item.Ref,
			item.Label,
			amount(item.Amount),
			amount(item.BalanceCurrent),
			amount(item.BalancePrior),
			amount(item.Variation),
			amount(item.DebitCurrent),
			amount(item.CreditCurrent),
			item.Formula,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("error writing line item %s: %w", item.Ref, err)
		}
	}
	return nil
}

func writeLedgerSheet(f *excelize.File, ledger models.CategoryLedger) error {
	sheet := sheetName(ledger.Name)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("error creating sheet %q: %w", sheet, err)
	}

	if err := f.SetSheetRow(sheet, "A1", &comparisonHeaders); err != nil {
		return fmt.Errorf("error writing headers: %w", err)
	}
	for i, cmp := range ledger.Comparison {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			cmp.AccountNumber,
			cmp.Label,
			amount(cmp.BalanceCurrent),
			amount(cmp.BalancePrior),
			amount(cmp.Variation),
			amount(cmp.Percentage),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("error writing comparison row %s: %w", cmp.AccountNumber, err)
		}
	}

	totalsRow := []interface{}{
		"TOTAL", "",
		amount(ledger.BalanceCurrent),
		amount(ledger.BalancePrior),
		amount(ledger.Variation),
		"",
	}
	cell := fmt.Sprintf("A%d", len(ledger.Comparison)+2)
	if err := f.SetSheetRow(sheet, cell, &totalsRow); err != nil {
		return fmt.Errorf("error writing totals row: %w", err)
	}
	return nil
}

// amount renders a decimal as a float cell value rounded to two places.
// Excel cells hold floats anyway; rounding first keeps the display stable.
func amount(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// sheetName fits a category name into Excel's 31-character sheet limit.
func sheetName(name string) string {
	if len(name) <= 31 {
		return name
	}
	return name[:31]
}
