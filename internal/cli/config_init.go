package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecotrack/ecotrack/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing
// configuration.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates ~/.ecotrack/config.yaml populated with default values. The data
and model directories referenced by the defaults are created alongside it.`,
		Example: `  # Create the configuration file
  ecotrack config init

  # Recreate it, overwriting existing settings
  ecotrack config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

// executeConfigInit writes the default config file and the standard
// directories.
func executeConfigInit(cmd *cobra.Command, force bool) error {
	configPath, err := config.DefaultConfigPath()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", configPath, err)
		}
	}

	cfg := config.New()
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	if err := config.EnsureSubDirs(); err != nil {
		return fmt.Errorf("failed to create data directories: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", configPath)

	return nil
}
