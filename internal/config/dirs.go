package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// GlobalConfig holds the global configuration instance.
var GlobalConfig *Config        //nolint:gochecknoglobals // Singleton pattern for configuration
var globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Protects globalConfigInit flag
var globalConfigInit bool       //nolint:gochecknoglobals // Tracks if global config has been initialized

// InitGlobalConfig initializes the global configuration from defaults plus
// the config.yaml overlay in the user's ecotrack directory. Validation
// failures fall back to pure defaults so the CLI can still start and report
// the problem.
func InitGlobalConfig() error {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	if globalConfigInit {
		return nil
	}

	overlayPath := ""
	if dir, err := GetConfigDir(); err == nil {
		overlayPath = filepath.Join(dir, "config.yaml")
	}

	cfg, err := LoadWithOverlay(overlayPath)
	if err != nil {
		GlobalConfig = New()
		globalConfigInit = true
		return err
	}

	GlobalConfig = cfg
	globalConfigInit = true
	return nil
}

// ResetGlobalConfigForTest resets the global config for testing purposes.
func ResetGlobalConfigForTest() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	GlobalConfig = nil
	globalConfigInit = false
}

// GetGlobalConfig returns the global configuration, initializing it if needed.
func GetGlobalConfig() *Config {
	_ = InitGlobalConfig()
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return GlobalConfig
}

// GetLoggingConfig returns the Logging section of the global configuration.
// The returned value is a copy; flag-level overrides (for example --debug)
// are applied by the caller after retrieving it.
func GetLoggingConfig() LoggingConfig {
	cfg := GetGlobalConfig()
	return cfg.Logging
}

// GetDefaultOutputFormat returns the configured default output format,
// used as the --output flag default across commands.
func GetDefaultOutputFormat() string {
	cfg := GetGlobalConfig()
	return cfg.Output.DefaultFormat
}

// GetOutputPrecision returns the configured decimal precision for
// emission values in rendered output.
func GetOutputPrecision() int {
	cfg := GetGlobalConfig()
	return cfg.Output.Precision
}

// GetConfigDir returns the path to the ecotrack configuration directory.
// ECOTRACK_HOME overrides the default ~/.ecotrack.
func GetConfigDir() (string, error) {
	if etHome := os.Getenv("ECOTRACK_HOME"); etHome != "" {
		return etHome, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ecotrack"), nil
}

// EnsureConfigDir ensures the ecotrack configuration directory exists.
func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// EnsureLogDir ensures the directory for the configured log file exists.
// If no log file is configured, it does nothing.
func EnsureLogDir() error {
	cfg := GetGlobalConfig()
	if cfg.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(cfg.Logging.File)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}

// EnsureSubDirs creates the standard directories: the base config directory,
// the model artifact directory, the database directory, and the log
// directory when file logging is configured.
func EnsureSubDirs() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	cfg := GetGlobalConfig()
	if cfg.Storage.ModelDir != "" {
		if err := os.MkdirAll(cfg.Storage.ModelDir, 0700); err != nil {
			return fmt.Errorf("failed to create model directory %q: %w", cfg.Storage.ModelDir, err)
		}
	}
	if cfg.Storage.DatabasePath != "" {
		dbDir := filepath.Dir(cfg.Storage.DatabasePath)
		if err := os.MkdirAll(dbDir, 0700); err != nil {
			return fmt.Errorf("failed to create database directory %q: %w", dbDir, err)
		}
	}

	return EnsureLogDir()
}
