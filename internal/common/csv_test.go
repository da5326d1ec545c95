package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jkouame/tft-engine/internal/models"
)

func TestReadAccountRows(t *testing.T) {
	content := `account_number,account_label,balance,total_debit,total_credit,created_at,financial_report_id
521000,Banque locale,120000.50,200000,79999.50,2024-12-31,rep-1
0000279-01,Compte auxiliaire,-500,0,500,2024-12-31 10:30:00,rep-1
411000,Clients,42000,42000,0,2023-12-31,rep-1
`
	path := filepath.Join(t.TempDir(), "balances.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rows, err := ReadAccountRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	bank := rows[0]
	assert.Equal(t, "521000", bank.AccountNumber)
	assert.Equal(t, "Banque locale", bank.Label)
	assert.True(t, decimal.RequireFromString("120000.50").Equal(bank.Balance))
	assert.Equal(t, 2024, bank.Year())
	assert.Equal(t, "rep-1", bank.FinancialReportID)

	// Suffixed account numbers pass through untouched; classification
	// normalizes them later.
	assert.Equal(t, "0000279-01", rows[1].AccountNumber)
	assert.True(t, rows[1].Balance.IsNegative())

	assert.Equal(t, 2023, rows[2].Year())
}

func TestReadAccountRowsBadInput(t *testing.T) {
	t.Run("Missing file", func(t *testing.T) {
		_, err := ReadAccountRows(filepath.Join(t.TempDir(), "absent.csv"))
		assert.Error(t, err)
	})

	t.Run("Bad date", func(t *testing.T) {
		content := "account_number,account_label,balance,total_debit,total_credit,created_at,financial_report_id\n521000,Banque,100,0,0,not-a-date,rep-1\n"
		path := filepath.Join(t.TempDir(), "bad.csv")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		_, err := ReadAccountRows(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not-a-date")
	})

	t.Run("Empty account number", func(t *testing.T) {
		content := "account_number,account_label,balance,total_debit,total_credit,created_at,financial_report_id\n,Banque,100,0,0,2024-12-31,rep-1\n"
		path := filepath.Join(t.TempDir(), "empty.csv")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		_, err := ReadAccountRows(path)
		assert.Error(t, err)
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		year  int
	}{
		{"ISO date", "2024-12-31", 2024},
		{"ISO datetime", "2023-06-15 08:00:00", 2023},
		{"RFC3339", "2024-01-02T15:04:05Z", 2024},
		{"Swiss style", "31.12.2024", 2024},
		{"Slash style", "31/12/2024", 2024},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseDate(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.year, parsed.Year())
		})
	}

	_, err := ParseDate("")
	assert.Error(t, err)
}

func TestWriteLineItemsToCSV(t *testing.T) {
	table := models.NewTFTTable()
	table.Append(models.LineItemResult{
		Ref:            "ZA",
		Label:          "Trésorerie nette au 1er janvier",
		Amount:         decimal.NewFromInt(50000),
		BalanceCurrent: decimal.NewFromInt(50000),
	})
	table.Append(models.LineItemResult{
		Ref:     "ZB",
		Label:   "Flux opérationnels",
		Amount:  decimal.RequireFromString("70000.125"),
		Formula: "FA+FB+FC+FD+FE",
	})

	path := filepath.Join(t.TempDir(), "out", "tft.csv")
	require.NoError(t, WriteLineItemsToCSV(table, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "ref,libelle,montant")
	assert.Contains(t, content, "ZA,Trésorerie nette au 1er janvier,50000")
	// Amounts are rounded to two decimals.
	assert.Contains(t, content, "70000.13")
	assert.Contains(t, content, "FA+FB+FC+FD+FE")
}

func TestWriteLineItemsToCSVNilTable(t *testing.T) {
	assert.Error(t, WriteLineItemsToCSV(nil, filepath.Join(t.TempDir(), "x.csv")))
}

func TestSetDelimiter(t *testing.T) {
	original := Delimiter
	defer SetDelimiter(original)

	SetDelimiter(';')
	assert.Equal(t, ';', Delimiter)

	table := models.NewTFTTable()
	table.Append(models.LineItemResult{Ref: "ZA", Label: "Ouverture", Amount: decimal.NewFromInt(1)})

	path := filepath.Join(t.TempDir(), "semi.csv")
	require.NoError(t, WriteLineItemsToCSV(table, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ref;libelle;montant")
}

func TestRecordDateParsing(t *testing.T) {
	parsed, err := ParseDate("2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.June, parsed.Month())
}
