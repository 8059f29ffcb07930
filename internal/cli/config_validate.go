package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecotrack/ecotrack/internal/config"
	"github.com/ecotrack/ecotrack/internal/factors"
)

// NewConfigValidateCmd creates the config validate command for validating
// configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration at ~/.ecotrack/config.yaml for syntax and
semantic correctness, including value ranges for training, features, and
output settings, and the emission factor table when a custom one is
configured.`,
		Example: `  # Validate current configuration
  ecotrack config validate

  # Validate and show the effective settings
  ecotrack config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// executeConfigValidate re-validates the effective configuration and the
// factor table it points at.
func executeConfigValidate(cmd *cobra.Command, verbose bool) error {
	configPath, err := config.DefaultConfigPath()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	cfg, err := config.LoadWithOverlay(configPath)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	// A configured factor table must load and parse.
	factorSource := "built-in"
	if cfg.Factors.Path != "" {
		factorSource = cfg.Factors.Path
	}
	catalog, err := factors.Load(cfg.Factors.Path)
	if err != nil {
		return fmt.Errorf("emission factor validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		cmd.Println()
		cmd.Println("Configuration details:")
		cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
		cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
		cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
		cmd.Printf("  Database: %s\n", cfg.Storage.DatabasePath)
		cmd.Printf("  Model directory: %s\n", cfg.Storage.ModelDir)
		cmd.Printf("  Factor table: %s (%d factors)\n", factorSource, catalog.Len())
		cmd.Printf("  Feature window: %d days\n", cfg.Features.WindowDays)
		cmd.Printf("  Training: min %d samples, %d-fold CV, %.0f%% holdout\n",
			cfg.Training.MinSamples, cfg.Training.CVFolds, cfg.Training.ValidationSplit*100)
		cmd.Printf("  Algorithms: %v\n", cfg.Training.AlgorithmPriority)
	}

	return nil
}
