// Package ingest handles loading balance CSV files into the database.
package ingest

import (
	"context"

	"github.com/spf13/cobra"

	"jkouame/tft-engine/cmd/root"
	"jkouame/tft-engine/internal/common"
	"jkouame/tft-engine/internal/config"
	"jkouame/tft-engine/internal/store"
)

var reportIDFlag string

// Cmd represents the ingest command.
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load a balance CSV file into the database",
	Long: `Load a balance CSV upload into the account_data table so the watcher
can pick it up for generation.

Example:
  tft-engine ingest -i balances.csv --report rep-2024`,
	Run: ingestFunc,
}

func init() {
	Cmd.Flags().StringVar(&reportIDFlag, "report", "", "Financial report identifier (defaults to the file's financial_report_id column)")
}

func ingestFunc(cmd *cobra.Command, args []string) {
	logger := root.Log

	input := root.SharedFlags.Input
	if input == "" {
		logger.Fatal("Input file must be specified")
	}

	cfg, err := config.InitializeConfig()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger = config.ConfigureLoggingFromConfig(cfg)
	root.PropagateLogger(logger)

	if cfg.Store.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL must be set to ingest")
	}

	rows, err := common.ReadAccountRows(input)
	if err != nil {
		logger.Fatalf("Failed to read balance file: %v", err)
	}
	if len(rows) == 0 {
		logger.Fatal("Balance file contains no rows")
	}

	reportID := reportIDFlag
	if reportID == "" {
		reportID = rows[0].FinancialReportID
	}
	if reportID == "" {
		logger.Fatal("No report identifier: pass --report or fill financial_report_id in the file")
	}

	ctx := context.Background()
	pg, err := store.NewPostgresStore(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		logger.Fatalf("Failed to prepare schema: %v", err)
	}
	if err := pg.InsertAccountRows(ctx, reportID, rows); err != nil {
		logger.Fatalf("Failed to insert rows: %v", err)
	}

	logger.WithFields(map[string]interface{}{
		"report": reportID,
		"rows":   len(rows),
	}).Info("Ingest completed")
}
