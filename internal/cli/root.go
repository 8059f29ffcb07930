// Package cli assembles the ecotrack command tree: activity logging,
// footprint summaries, model training, prediction, recommendations, and
// reports, plus configuration management and environment setup.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ecotrack/ecotrack/internal/config"
	"github.com/ecotrack/ecotrack/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the ecotrack CLI.
// It wires up configuration loading, logging, and the subcommand groups
// (log, footprint, profile, train, predict, recommend, report, config, setup).
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "ecotrack",
		Short:   "Personal carbon footprint tracker and forecaster",
		Long:    "EcoTrack: Log daily activities, estimate CO2 emissions, and forecast your annual footprint",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.InitGlobalConfig(); err != nil {
				// Config problems fall back to defaults so the CLI still
				// starts; the user sees what was wrong.
				cmd.PrintErrf("Warning: configuration invalid, using defaults: %v\n", err)
			}

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.AddCommand(
		newLogCmd(), newFootprintCmd(), newProfileCmd(),
		newTrainCmd(), newPredictCmd(), newRecommendCmd(), newReportCmd(),
		newConfigCmd(), NewSetupCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Log an activity for today
  ecotrack log add --category transport --subtype gasoline_car --quantity 25 --unit mile

  # Import activities from a CSV file
  ecotrack log import --file activities.csv

  # Show today's footprint
  ecotrack footprint

  # Train a forecast model on logged history
  ecotrack train

  # Predict the annual footprint
  ecotrack predict

  # Get reduction recommendations
  ecotrack recommend

  # Full report for the last 30 days
  ecotrack report --days 30

  # Initialize configuration
  ecotrack config init`

// newLogCmd creates the log command group with activity logging subcommands.
func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "log", Short: "Activity logging commands"}
	cmd.AddCommand(
		NewLogAddCmd(), NewLogImportCmd(), NewLogDemoCmd(), NewLogListCmd(),
	)
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}

// newProfileCmd creates the profile command group.
func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "profile", Short: "Household profile commands"}
	cmd.AddCommand(NewProfileSetCmd(), NewProfileShowCmd())
	return cmd
}
