package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack/ecotrack/internal/config"
)

func TestNew_Defaults(t *testing.T) {
	cfg := config.New()

	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	assert.Equal(t, 2, cfg.Output.Precision)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Features.WindowDays)
	assert.Equal(t, 50, cfg.Training.MinSamples)
	assert.InDelta(t, 0.2, cfg.Training.ValidationSplit, 1e-9)
	assert.Equal(t, 5, cfg.Training.CVFolds)
	assert.Equal(t, []string{"gradient_boosting", "random_forest", "ridge"}, cfg.Training.AlgorithmPriority)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.InDelta(t, 0.95, cfg.Training.IntervalConfidence, 1e-9)
	assert.Equal(t, 8, cfg.Recommendations.MaxResults)
	assert.NotEmpty(t, cfg.Storage.DatabasePath)
	assert.NotEmpty(t, cfg.Storage.ModelDir)

	require.NoError(t, cfg.Validate())
}

func TestValidate_RejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"negative precision", func(c *config.Config) { c.Output.Precision = -1 }},
		{"window below minimum", func(c *config.Config) { c.Features.WindowDays = 3 }},
		{"zero min samples", func(c *config.Config) { c.Training.MinSamples = 0 }},
		{"zero validation split", func(c *config.Config) { c.Training.ValidationSplit = 0 }},
		{"validation split above half", func(c *config.Config) { c.Training.ValidationSplit = 0.6 }},
		{"single fold", func(c *config.Config) { c.Training.CVFolds = 1 }},
		{"empty priority", func(c *config.Config) { c.Training.AlgorithmPriority = nil }},
		{"blank priority entry", func(c *config.Config) { c.Training.AlgorithmPriority = []string{"ridge", " "} }},
		{"duplicate priority entry", func(c *config.Config) { c.Training.AlgorithmPriority = []string{"ridge", "ridge"} }},
		{"confidence at one", func(c *config.Config) { c.Training.IntervalConfidence = 1.0 }},
		{"zero max recommendations", func(c *config.Config) { c.Recommendations.MaxResults = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, config.ErrInvalidConfig))
		})
	}
}

func TestLoadWithOverlay_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.LoadWithOverlay(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Training.MinSamples)
}

func TestLoadWithOverlay_InvalidMergedConfigFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("training:\n  min_samples: 0\n"), 0600))

	_, err := config.LoadWithOverlay(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestGetConfigDir_HonorsEnvOverride(t *testing.T) {
	t.Setenv("ECOTRACK_HOME", "/opt/ecotrack-home")

	dir, err := config.GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/opt/ecotrack-home", dir)
}
