// Package watch runs the polling loop that generates TFTs for reports as
// they finish uploading.
package watch

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"jkouame/tft-engine/cmd/root"
	"jkouame/tft-engine/internal/common"
	"jkouame/tft-engine/internal/config"
	"jkouame/tft-engine/internal/engine"
	"jkouame/tft-engine/internal/export"
	"jkouame/tft-engine/internal/mappingstore"
	"jkouame/tft-engine/internal/store"
	"jkouame/tft-engine/internal/trigger"

	"github.com/shopspring/decimal"
)

// Cmd represents the watch command.
var Cmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the database and generate TFTs for completed uploads",
	Long: `Poll the account_data table on a schedule. Every financial report that
has reached the row threshold and has no recorded run yet is generated,
exported and recorded.

Example:
  tft-engine watch -o exports/`,
	Run: watchFunc,
}

func watchFunc(cmd *cobra.Command, args []string) {
	logger := root.Log

	cfg, err := config.InitializeConfig()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger = config.ConfigureLoggingFromConfig(cfg)
	root.PropagateLogger(logger)

	if cfg.Store.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL must be set to watch")
	}

	outputDir := root.SharedFlags.Output
	if outputDir == "" {
		outputDir = cfg.Export.Directory
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := store.NewPostgresStore(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		logger.Fatalf("Failed to prepare schema: %v", err)
	}

	specs, categories, err := mappingstore.NewStore(cfg.Engine.MappingsFile).Load(root.SharedFlags.Variant)
	if err != nil {
		logger.Fatalf("Failed to load mapping variant: %v", err)
	}
	tolerance, err := decimal.NewFromString(cfg.Engine.Tolerance)
	if err != nil {
		logger.Fatalf("Invalid tolerance: %v", err)
	}
	materiality, err := decimal.NewFromString(cfg.Engine.Materiality)
	if err != nil {
		logger.Fatalf("Invalid materiality: %v", err)
	}

	handler := func(ctx context.Context, reportID string) error {
		rows, err := pg.LoadAccountRows(ctx, reportID, nil, nil)
		if err != nil {
			return err
		}

		result, err := engine.Generate(rows, engine.Options{
			Specs:       specs,
			Categories:  categories,
			Tolerance:   tolerance,
			Materiality: materiality,
		})
		if err != nil {
			return err
		}

		dir := filepath.Join(outputDir, reportID)
		workbook := filepath.Join(dir, "tft.xlsx")
		jsonFile := filepath.Join(dir, "tft.json")
		csvFile := filepath.Join(dir, "tft.csv")

		if err := export.WriteWorkbook(result, workbook); err != nil {
			return err
		}
		if err := export.WriteJSON(result, jsonFile); err != nil {
			return err
		}
		if err := common.WriteLineItemsToCSV(result.LineItems, csvFile); err != nil {
			return err
		}

		return pg.SaveRun(ctx, store.Run{
			ReportID:   reportID,
			IsCoherent: result.Coherence.IsCoherent,
			Files: []store.RunFile{
				{Category: "workbook", Path: workbook},
				{Category: "json", Path: jsonFile},
				{Category: "csv", Path: csvFile},
			},
		})
	}

	watcher := trigger.NewWatcher(pg, handler, cfg.Trigger.MinRows, cfg.Trigger.Schedule)
	if err := watcher.Start(ctx); err != nil {
		logger.Fatalf("Failed to start watcher: %v", err)
	}

	// An immediate pass before the first tick.
	watcher.Scan(ctx)

	<-ctx.Done()
	watcher.Stop()
	logger.Info("Watch stopped")
}
