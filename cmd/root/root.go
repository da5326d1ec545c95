// Package root contains the root command for the application.
package root

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"jkouame/tft-engine/internal/coherence"
	"jkouame/tft-engine/internal/common"
	"jkouame/tft-engine/internal/config"
	"jkouame/tft-engine/internal/engine"
	"jkouame/tft-engine/internal/export"
	"jkouame/tft-engine/internal/mappingstore"
	"jkouame/tft-engine/internal/mastersheet"
	"jkouame/tft-engine/internal/store"
	"jkouame/tft-engine/internal/trigger"
)

// CommonFlags represents the flags shared by multiple commands.
type CommonFlags struct {
	Input   string
	Output  string
	Variant string
}

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "tft-engine",
		Short: "Compute SYSCOHADA cash-flow statements from account balances.",
		Long: `tft-engine computes the Tableau des Flux de Trésorerie (TFT) and its
supporting ledgers from uploaded account balances, checks the result for
internal coherence and exports it as Excel, CSV or JSON.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to tft-engine!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			PropagateLogger(config.ConfigureLogging())

			if delim := os.Getenv("CSV_DELIMITER"); delim != "" {
				Log.WithField("delimiter", delim).Debug("Setting CSV delimiter from environment")
				common.SetDelimiter([]rune(delim)[0])
			}
		},
	}

	// SharedFlags holds the common flags accessible to all commands.
	SharedFlags = CommonFlags{}
)

// PropagateLogger makes logger the shared instance and hands it to every
// package. Commands that reconfigure logging from the full configuration
// call this again with the new logger.
func PropagateLogger(logger *logrus.Logger) {
	Log = logger
	common.SetLogger(Log)
	engine.SetLogger(Log)
	coherence.SetLogger(Log)
	mastersheet.SetLogger(Log)
	mappingstore.SetLogger(Log)
	store.SetLogger(Log)
	export.SetLogger(Log)
	trigger.SetLogger(Log)
}

// Init initializes the root command and all flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output directory")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Variant, "variant", "default", "Mapping variant to use")
}
