package trigger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jkouame/tft-engine/internal/models"
	"jkouame/tft-engine/internal/store"
)

func seedRows(t *testing.T, mock *store.MockStore, reportID string, count int) {
	t.Helper()
	rows := make([]models.AccountRow, count)
	for i := range rows {
		rows[i] = models.AccountRow{
			AccountNumber: fmt.Sprintf("52%04d", i),
			Balance:       decimal.NewFromInt(100),
			RecordDate:    time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		}
	}
	require.NoError(t, mock.InsertAccountRows(context.Background(), reportID, rows))
}

type recorder struct {
	mu      sync.Mutex
	handled []string
	fail    bool
}

func (r *recorder) handle(_ context.Context, reportID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return fmt.Errorf("boom")
	}
	r.handled = append(r.handled, reportID)
	return nil
}

func (r *recorder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.handled...)
}

func TestScanTriggersReadyReports(t *testing.T) {
	ctx := context.Background()
	mock := store.NewMockStore()
	seedRows(t, mock, "ready", 15)
	seedRows(t, mock, "uploading", 3)

	rec := &recorder{}
	w := NewWatcher(mock, rec.handle, 10, "@every 1m")
	w.Scan(ctx)

	assert.Equal(t, []string{"ready"}, rec.calls())
}

func TestScanSkipsProcessedReports(t *testing.T) {
	ctx := context.Background()
	mock := store.NewMockStore()
	seedRows(t, mock, "done", 15)
	require.NoError(t, mock.SaveRun(ctx, store.Run{ReportID: "done", IsCoherent: true}))

	rec := &recorder{}
	w := NewWatcher(mock, rec.handle, 10, "@every 1m")
	w.Scan(ctx)

	assert.Empty(t, rec.calls())
}

func TestScanContinuesAfterHandlerFailure(t *testing.T) {
	ctx := context.Background()
	mock := store.NewMockStore()
	seedRows(t, mock, "a", 15)
	seedRows(t, mock, "b", 15)

	rec := &recorder{fail: true}
	w := NewWatcher(mock, rec.handle, 10, "@every 1m")

	// Both reports are attempted even though the handler fails.
	w.Scan(ctx)
	assert.Empty(t, rec.calls())

	rec.fail = false
	w.Scan(ctx)
	assert.ElementsMatch(t, []string{"a", "b"}, rec.calls())
}

func TestNewWatcherDefaults(t *testing.T) {
	w := NewWatcher(store.NewMockStore(), nil, 0, "")
	assert.Equal(t, DefaultMinRows, w.minRows)
	assert.Equal(t, "@every 1m", w.schedule)
}

func TestStartStop(t *testing.T) {
	mock := store.NewMockStore()
	rec := &recorder{}
	w := NewWatcher(mock, rec.handle, 10, "@every 1h")

	require.NoError(t, w.Start(context.Background()))
	w.Stop()
}
