// Package common provides the shared CSV plumbing used by the ingest and
// export paths: reading balance uploads into account rows and writing
// computed line items back out.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"jkouame/tft-engine/internal/models"
)

var log = logrus.New()

// Global CSV delimiter, configurable via config or environment variable.
var Delimiter rune = ','

func init() {
	if val := os.Getenv("CSV_DELIMITER"); val != "" {
		SetDelimiter([]rune(val)[0])
	}
}

// SetDelimiter allows setting the delimiter for CSV input and output.
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = fmt.Sprintf("%c", delim)
}

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger == nil {
		return
	}
	log = logger
}

// dateLayouts are tried in order when parsing the created_at column.
// Balance uploads come from several exporters that disagree on the format.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
}

// accountCSVRow mirrors one line of a balance upload. The column names match
// the account_data schema so database dumps round-trip unchanged.
type accountCSVRow struct {
	AccountNumber     string          `csv:"account_number"`
	Label             string          `csv:"account_label"`
	Balance           decimal.Decimal `csv:"balance"`
	TotalDebit        decimal.Decimal `csv:"total_debit"`
	TotalCredit       decimal.Decimal `csv:"total_credit"`
	CreatedAt         string          `csv:"created_at"`
	FinancialReportID string          `csv:"financial_report_id"`
}

// ReadAccountRows reads a balance-upload CSV into account rows.
func ReadAccountRows(filePath string) ([]models.AccountRow, error) {
	log.WithField("file", filePath).Info("Reading balance CSV file")

	file, err := os.Open(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	var csvRows []accountCSVRow
	if err := gocsv.UnmarshalFile(file, &csvRows); err != nil {
		log.WithError(err).Error("Failed to parse CSV file")
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	rows := make([]models.AccountRow, 0, len(csvRows))
	for i, raw := range csvRows {
		row, err := raw.toAccountRow()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}

	log.WithField("count", len(rows)).Info("Successfully read balance data")
	return rows, nil
}

func (r accountCSVRow) toAccountRow() (models.AccountRow, error) {
	account := strings.TrimSpace(r.AccountNumber)
	if account == "" {
		return models.AccountRow{}, fmt.Errorf("empty account_number")
	}
	date, err := ParseDate(r.CreatedAt)
	if err != nil {
		return models.AccountRow{}, fmt.Errorf("account %s: %w", account, err)
	}
	return models.AccountRow{
		AccountNumber:     account,
		Label:             strings.TrimSpace(r.Label),
		Balance:           r.Balance,
		TotalDebit:        r.TotalDebit,
		TotalCredit:       r.TotalCredit,
		RecordDate:        date,
		FinancialReportID: r.FinancialReportID,
	}, nil
}

// ParseDate parses a record date trying the supported upload formats.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty created_at")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// lineItemCSVRow is the flat CSV form of one computed line item.
type lineItemCSVRow struct {
	Ref            string          `csv:"ref"`
	Label          string          `csv:"libelle"`
	Amount         decimal.Decimal `csv:"montant"`
	BalanceCurrent decimal.Decimal `csv:"solde_n"`
	BalancePrior   decimal.Decimal `csv:"solde_n1"`
	Variation      decimal.Decimal `csv:"variation"`
	Formula        string          `csv:"formule"`
}

// WriteLineItemsToCSV writes a computed TFT to a CSV file, one line item per
// row in statement order.
func WriteLineItemsToCSV(table *models.TFTTable, csvFile string) error {
	if table == nil {
		return fmt.Errorf("cannot write nil table to CSV")
	}

	log.WithFields(logrus.Fields{
		"file":  csvFile,
		"count": table.Len(),
	}).Info("Writing line items to CSV file")

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		log.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		log.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	csvRows := make([]lineItemCSVRow, 0, table.Len())
	for _, item := range table.Rows() {
		csvRows = append(csvRows, lineItemCSVRow{
			Ref:            item.Ref,
			Label:          item.Label,
			Amount:         item.Amount.Round(2),
			BalanceCurrent: item.BalanceCurrent.Round(2),
			BalancePrior:   item.BalancePrior.Round(2),
			Variation:      item.Variation.Round(2),
			Formula:        item.Formula,
		})
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter
	if err := gocsv.MarshalCSV(csvRows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		log.WithError(err).Error("Failed to marshal line items to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.WithField("file", csvFile).Info("Successfully wrote line items to CSV file")
	return nil
}
