// Package generate handles computing a TFT from a balance CSV file.
package generate

import (
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"jkouame/tft-engine/cmd/root"
	"jkouame/tft-engine/internal/common"
	"jkouame/tft-engine/internal/config"
	"jkouame/tft-engine/internal/engine"
	"jkouame/tft-engine/internal/export"
	"jkouame/tft-engine/internal/mappingstore"
	"jkouame/tft-engine/internal/models"
)

var (
	startFlag string
	endFlag   string
)

// Cmd represents the generate command.
var Cmd = &cobra.Command{
	Use:   "generate",
	Short: "Compute the TFT from a balance CSV file",
	Long: `Compute the statement of cash flows and the supporting ledgers from a
balance CSV upload, check the result for coherence and write the Excel,
CSV and JSON exports.

Example:
  tft-engine generate -i balances.csv -o exports/`,
	Run: generateFunc,
}

func init() {
	Cmd.Flags().StringVar(&startFlag, "start", "", "Only keep rows on or after this date (e.g. 2023-01-01)")
	Cmd.Flags().StringVar(&endFlag, "end", "", "Only keep rows on or before this date")
}

func generateFunc(cmd *cobra.Command, args []string) {
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

	outputDir := root.SharedFlags.Output
	if outputDir == "" {
		outputDir = cfg.Export.Directory
	}

	rows, err := common.ReadAccountRows(input)
	if err != nil {
		logger.Fatalf("Failed to read balance file: %v", err)
	}

	window, err := dateWindow()
	if err != nil {
		logger.Fatalf("Invalid date window: %v", err)
	}

	opts, err := buildOptions(cfg, root.SharedFlags.Variant)
	if err != nil {
		logger.Fatalf("Failed to prepare engine options: %v", err)
	}
	opts.Window = window

	result, err := engine.Generate(rows, opts)
	if err != nil {
		logger.Fatalf("Generation failed: %v", err)
	}

	if !result.Coherence.IsCoherent {
		logger.Warn("Generated TFT is not coherent, see the coherence report")
	}
	for _, warning := range result.Coherence.SectionWarnings {
		logger.Warn(warning)
	}
	for _, advisory := range result.Coherence.Advisories {
		logger.Warn(advisory)
	}

	if err := export.WriteWorkbook(result, filepath.Join(outputDir, "tft.xlsx")); err != nil {
		logger.Fatalf("Failed to write workbook: %v", err)
	}
	if err := export.WriteJSON(result, filepath.Join(outputDir, "tft.json")); err != nil {
		logger.Fatalf("Failed to write JSON export: %v", err)
	}
	if err := common.WriteLineItemsToCSV(result.LineItems, filepath.Join(outputDir, "tft.csv")); err != nil {
		logger.Fatalf("Failed to write CSV export: %v", err)
	}

	logger.WithField("output", outputDir).Info("TFT generation completed")
}

// buildOptions resolves the mapping variant and check thresholds from the
// configuration.
func buildOptions(cfg *config.Config, variant string) (engine.Options, error) {
	specs, categories, err := mappingstore.NewStore(cfg.Engine.MappingsFile).Load(variant)
	if err != nil {
		return engine.Options{}, err
	}

	tolerance, err := decimal.NewFromString(cfg.Engine.Tolerance)
	if err != nil {
		return engine.Options{}, err
	}
	materiality, err := decimal.NewFromString(cfg.Engine.Materiality)
	if err != nil {
		return engine.Options{}, err
	}

	return engine.Options{
		Specs:       specs,
		Categories:  categories,
		Tolerance:   tolerance,
		Materiality: materiality,
	}, nil
}

func dateWindow() (*models.DateRange, error) {
	if startFlag == "" && endFlag == "" {
		return nil, nil
	}
	window := &models.DateRange{}
	if startFlag != "" {
		start, err := common.ParseDate(startFlag)
		if err != nil {
			return nil, err
		}
		window.Start = &start
	}
	if endFlag != "" {
		end, err := common.ParseDate(endFlag)
		if err != nil {
			return nil, err
		}
		// Make the end bound cover the whole day.
		end = end.Add(24*time.Hour - time.Second)
		window.End = &end
	}
	return window, nil
}
