package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"jkouame/tft-engine/internal/models"
)

// MockStore is an in-memory Store implementation for tests and file-only
// workflows.
type MockStore struct {
	mu   sync.RWMutex
	data map[string][]models.AccountRow
	runs map[string][]Run
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string][]models.AccountRow),
		runs: make(map[string][]Run),
	}
}

// LoadAccountRows returns the rows of a financial report, optionally
// restricted to a date range.
func (m *MockStore) LoadAccountRows(_ context.Context, reportID string, start, end *time.Time) ([]models.AccountRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	window := models.DateRange{Start: start, End: end}
	var result []models.AccountRow
	for _, row := range m.data[reportID] {
		if window.Contains(row.RecordDate) {
			result = append(result, row)
		}
	}
	return result, nil
}

// CountRows returns how many rows a financial report currently has.
func (m *MockStore) CountRows(_ context.Context, reportID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data[reportID]), nil
}

// ListReportIDs returns the distinct financial report identifiers.
func (m *MockStore) ListReportIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// InsertAccountRows persists uploaded rows under a financial report.
func (m *MockStore) InsertAccountRows(_ context.Context, reportID string, rows []models.AccountRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[reportID] = append(m.data[reportID], rows...)
	return nil
}

// SaveRun records one completed generation.
func (m *MockStore) SaveRun(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.GeneratedAt.IsZero() {
		run.GeneratedAt = time.Now().UTC()
	}
	m.runs[run.ReportID] = append(m.runs[run.ReportID], run)
	return nil
}

// HasSuccessfulRun reports whether a report already has a recorded run.
func (m *MockStore) HasSuccessfulRun(_ context.Context, reportID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs[reportID]) > 0, nil
}

// Runs returns the recorded runs for a report, for test assertions.
func (m *MockStore) Runs(reportID string) []Run {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Run(nil), m.runs[reportID]...)
}
