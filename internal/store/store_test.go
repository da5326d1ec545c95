package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jkouame/tft-engine/internal/models"
)

func row(account string, year int) models.AccountRow {
	return models.AccountRow{
		AccountNumber: account,
		Balance:       decimal.NewFromInt(100),
		RecordDate:    time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestMockStoreAccounts(t *testing.T) {
	ctx := context.Background()
	mock := NewMockStore()

	require.NoError(t, mock.InsertAccountRows(ctx, "rep-1", []models.AccountRow{
		row("521000", 2023),
		row("411000", 2024),
	}))
	require.NoError(t, mock.InsertAccountRows(ctx, "rep-2", []models.AccountRow{
		row("521000", 2024),
	}))

	count, err := mock.CountRows(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	ids, err := mock.ListReportIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"rep-1", "rep-2"}, ids)

	rows, err := mock.LoadAccountRows(ctx, "rep-1", nil, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// Date bounds restrict the load.
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows, err = mock.LoadAccountRows(ctx, "rep-1", &start, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "411000", rows[0].AccountNumber)

	// Unknown report is empty, not an error.
	rows, err = mock.LoadAccountRows(ctx, "rep-404", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMockStoreRuns(t *testing.T) {
	ctx := context.Background()
	mock := NewMockStore()

	done, err := mock.HasSuccessfulRun(ctx, "rep-1")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, mock.SaveRun(ctx, Run{
		ReportID:   "rep-1",
		IsCoherent: true,
		Files:      []RunFile{{Category: "tft", Path: "exports/tft.xlsx"}},
	}))

	done, err = mock.HasSuccessfulRun(ctx, "rep-1")
	require.NoError(t, err)
	assert.True(t, done)

	runs := mock.Runs("rep-1")
	require.Len(t, runs, 1)
	assert.NotEmpty(t, runs[0].ID)
	assert.False(t, runs[0].GeneratedAt.IsZero())
	assert.Len(t, runs[0].Files, 1)
}

// The store interfaces stay satisfied by both implementations.
var (
	_ Store = (*MockStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
