package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"jkouame/tft-engine/internal/models"
)

// PostgresStore persists account data and runs in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and verifies the connection.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// EnsureSchema creates the tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS account_data (
			id UUID PRIMARY KEY,
			account_number TEXT NOT NULL,
			account_label TEXT NOT NULL DEFAULT '',
			balance NUMERIC NOT NULL DEFAULT 0,
			total_debit NUMERIC NOT NULL DEFAULT 0,
			total_credit NUMERIC NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			financial_report_id TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_account_data_report
			ON account_data (financial_report_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS tft_runs (
			id UUID PRIMARY KEY,
			financial_report_id TEXT NOT NULL,
			is_coherent BOOLEAN NOT NULL,
			generated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tft_run_files (
			id UUID PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES tft_runs (id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			path TEXT NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("error creating schema: %w", err)
		}
	}
	return nil
}

// LoadAccountRows returns the rows of a financial report, optionally
// restricted to a date range. Numeric columns are selected as text and
// parsed into decimals to avoid float conversion.
func (s *PostgresStore) LoadAccountRows(ctx context.Context, reportID string, start, end *time.Time) ([]models.AccountRow, error) {
	query := `SELECT account_number, account_label,
		balance::text, total_debit::text, total_credit::text,
		created_at, financial_report_id
		FROM account_data
		WHERE financial_report_id = $1`
	args := []interface{}{reportID}

	if start != nil {
		args = append(args, *start)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at, account_number"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying account data: %w", err)
	}
	defer rows.Close()

	var result []models.AccountRow
	for rows.Next() {
		var row models.AccountRow
		var balance, debit, credit string
		if err := rows.Scan(&row.AccountNumber, &row.Label,
			&balance, &debit, &credit,
			&row.RecordDate, &row.FinancialReportID); err != nil {
			return nil, fmt.Errorf("error scanning account row: %w", err)
		}
		if row.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("account %s: invalid balance %q: %w", row.AccountNumber, balance, err)
		}
		if row.TotalDebit, err = decimal.NewFromString(debit); err != nil {
			return nil, fmt.Errorf("account %s: invalid total_debit %q: %w", row.AccountNumber, debit, err)
		}
		if row.TotalCredit, err = decimal.NewFromString(credit); err != nil {
			return nil, fmt.Errorf("account %s: invalid total_credit %q: %w", row.AccountNumber, credit, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading account data: %w", err)
	}

	log.WithField("count", len(result)).Debug("Loaded account rows")
	return result, nil
}

// CountRows returns how many rows a financial report currently has.
func (s *PostgresStore) CountRows(ctx context.Context, reportID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM account_data WHERE financial_report_id = $1`,
		reportID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting account rows: %w", err)
	}
	return count, nil
}

// ListReportIDs returns the distinct financial report identifiers.
func (s *PostgresStore) ListReportIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT financial_report_id FROM account_data ORDER BY financial_report_id`)
	if err != nil {
		return nil, fmt.Errorf("error listing report ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning report id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// InsertAccountRows persists uploaded rows under a financial report.
func (s *PostgresStore) InsertAccountRows(ctx context.Context, reportID string, rows []models.AccountRow) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ins := `INSERT INTO account_data
		(id, account_number, account_label, balance, total_debit, total_credit, created_at, financial_report_id)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7, $8)`
	for _, row := range rows {
		if _, err := tx.Exec(ctx, ins,
			uuid.New(), row.AccountNumber, row.Label,
			row.Balance.String(), row.TotalDebit.String(), row.TotalCredit.String(),
			row.RecordDate, reportID); err != nil {
			return fmt.Errorf("error inserting account %s: %w", row.AccountNumber, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing account rows: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"report": reportID,
		"count":  len(rows),
	}).Info("Inserted account rows")
	return nil
}

// SaveRun records one completed generation with its output files.
func (s *PostgresStore) SaveRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.GeneratedAt.IsZero() {
		run.GeneratedAt = time.Now().UTC()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO tft_runs (id, financial_report_id, is_coherent, generated_at) VALUES ($1, $2, $3, $4)`,
		run.ID, run.ReportID, run.IsCoherent, run.GeneratedAt); err != nil {
		return fmt.Errorf("error inserting run: %w", err)
	}
	for _, file := range run.Files {
		if _, err := tx.Exec(ctx,
			`INSERT INTO tft_run_files (id, run_id, category, path) VALUES ($1, $2, $3, $4)`,
			uuid.New(), run.ID, file.Category, file.Path); err != nil {
			return fmt.Errorf("error inserting run file: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// HasSuccessfulRun reports whether a report already has a successful run.
func (s *PostgresStore) HasSuccessfulRun(ctx context.Context, reportID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tft_runs WHERE financial_report_id = $1)`,
		reportID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking runs: %w", err)
	}
	return exists, nil
}
