package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack/ecotrack/internal/config"
)

// newDefaultTarget returns a Config with known non-zero defaults so tests can
// verify that absent overlay keys leave the original values intact.
func newDefaultTarget() *config.Config {
	return &config.Config{
		Output: config.OutputConfig{
			DefaultFormat: "table",
			Precision:     2,
		},
		Logging: config.LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: config.StorageConfig{
			DatabasePath: "/home/u/.ecotrack/ecotrack.db",
			ModelDir:     "/home/u/.ecotrack/models",
		},
		Features: config.FeaturesConfig{
			WindowDays: 30,
		},
		Training: config.TrainingConfig{
			MinSamples:         50,
			ValidationSplit:    0.2,
			CVFolds:            5,
			AlgorithmPriority:  []string{"gradient_boosting", "random_forest", "ridge"},
			Seed:               42,
			IntervalConfidence: 0.95,
		},
		Recommendations: config.RecommendConfig{
			MaxResults: 8,
		},
	}
}

// writeOverlay is a test helper that writes YAML content to a temp file
// and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
output:
  default_format: json
  precision: 4
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	// Output should be replaced.
	assert.Equal(t, "json", target.Output.DefaultFormat)
	assert.Equal(t, 4, target.Output.Precision)

	// Other sections should be unchanged.
	assert.Equal(t, "info", target.Logging.Level)
	assert.Equal(t, 5, target.Training.CVFolds)
	assert.Equal(t, 30, target.Features.WindowDays)
}

func TestShallowMergeYAML_MultipleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
features:
  window_days: 60
training:
  min_samples: 100
  validation_split: 0.25
  cv_folds: 10
  algorithm_priority: [ridge]
  seed: 7
  interval_confidence: 0.9
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.Equal(t, 60, target.Features.WindowDays)
	assert.Equal(t, 100, target.Training.MinSamples)
	assert.InDelta(t, 0.25, target.Training.ValidationSplit, 1e-9)
	assert.Equal(t, 10, target.Training.CVFolds)
	assert.Equal(t, []string{"ridge"}, target.Training.AlgorithmPriority)
	assert.Equal(t, int64(7), target.Training.Seed)
	assert.InDelta(t, 0.9, target.Training.IntervalConfidence, 1e-9)
}

func TestShallowMergeYAML_AbsentKeysPreserved(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
logging:
  level: debug
  format: json
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.Equal(t, "debug", target.Logging.Level)
	assert.Equal(t, "json", target.Logging.Format)

	// Storage, Training, Features, Recommendations remain at defaults.
	assert.Equal(t, "/home/u/.ecotrack/ecotrack.db", target.Storage.DatabasePath)
	assert.Equal(t, 50, target.Training.MinSamples)
	assert.Equal(t, 30, target.Features.WindowDays)
	assert.Equal(t, 8, target.Recommendations.MaxResults)
}

func TestShallowMergeYAML_SectionReplacementIsComplete(t *testing.T) {
	// A section present in the overlay replaces the whole section: fields the
	// overlay omits inside that section revert to their zero values.
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
training:
  min_samples: 80
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.Equal(t, 80, target.Training.MinSamples)
	assert.Zero(t, target.Training.ValidationSplit)
	assert.Zero(t, target.Training.CVFolds)
	assert.Empty(t, target.Training.AlgorithmPriority)
}

func TestShallowMergeYAML_EmptyOverlayFile(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, "")

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.Equal(t, "table", target.Output.DefaultFormat)
	assert.Equal(t, 50, target.Training.MinSamples)
}

func TestShallowMergeYAML_CommentOnlyFile(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
# nothing here yet
# storage paths configured elsewhere
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)
	assert.Equal(t, "/home/u/.ecotrack/models", target.Storage.ModelDir)
}

func TestShallowMergeYAML_CorruptedYAMLReturnsError(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, "output: [unclosed")

	err := config.ShallowMergeYAML(target, overlay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing overlay YAML")
}

func TestShallowMergeYAML_MissingFileReturnsError(t *testing.T) {
	target := newDefaultTarget()

	err := config.ShallowMergeYAML(target, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading overlay file")
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
telemetry:
  endpoint: http://localhost:4317
output:
  default_format: json
  precision: 3
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)
	assert.Equal(t, "json", target.Output.DefaultFormat)
}

func TestShallowMergeYAML_OverrideStorageAndFactors(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
storage:
  database_path: /data/eco.db
  model_dir: /data/models
factors:
  path: /etc/ecotrack/factors.yaml
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.Equal(t, "/data/eco.db", target.Storage.DatabasePath)
	assert.Equal(t, "/data/models", target.Storage.ModelDir)
	assert.Equal(t, "/etc/ecotrack/factors.yaml", target.Factors.Path)
}

func TestShallowMergeYAML_NilTargetReturnsError(t *testing.T) {
	overlay := writeOverlay(t, "output: {}")
	err := config.ShallowMergeYAML(nil, overlay)
	require.Error(t, err)
}
