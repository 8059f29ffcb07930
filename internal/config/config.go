// Package config holds ecotrack's configuration model: typed sections with
// defaults, a shallow YAML overlay loaded from the user's config directory,
// and validation applied once at startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default tuning values applied by New. Overridable per section via the
// config file.
const (
	DefaultWindowDays         = 30
	DefaultMinTrainingSamples = 50
	DefaultValidationSplit    = 0.2
	DefaultCVFolds            = 5
	DefaultSeed               = 42
	DefaultIntervalConfidence = 0.95
	DefaultMaxRecommendations = 8
	DefaultOutputPrecision    = 2
)

// Config is the root configuration for ecotrack. Sections map 1:1 to
// top-level keys in config.yaml.
type Config struct {
	Output          OutputConfig    `yaml:"output"`
	Logging         LoggingConfig   `yaml:"logging"`
	Storage         StorageConfig   `yaml:"storage"`
	Factors         FactorsConfig   `yaml:"factors"`
	Features        FeaturesConfig  `yaml:"features"`
	Training        TrainingConfig  `yaml:"training"`
	Recommendations RecommendConfig `yaml:"recommendations"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	// DefaultFormat is "table" or "json".
	DefaultFormat string `yaml:"default_format"`
	// Precision is the number of decimal places for emission values.
	Precision int `yaml:"precision"`
}

// LoggingConfig controls the root logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// StorageConfig locates the activity database and model artifacts.
type StorageConfig struct {
	// DatabasePath is the sqlite file holding activities, daily footprints,
	// and the user profile.
	DatabasePath string `yaml:"database_path"`
	// ModelDir is the directory holding persisted model artifacts.
	ModelDir string `yaml:"model_dir"`
}

// FactorsConfig selects the emission factor source.
type FactorsConfig struct {
	// Path points at a YAML factor table replacing the built-in defaults.
	// Empty means use the built-in table.
	Path string `yaml:"path"`
}

// FeaturesConfig tunes feature construction.
type FeaturesConfig struct {
	// WindowDays is the history window length feeding the feature vector.
	WindowDays int `yaml:"window_days"`
}

// TrainingConfig tunes the model training pipeline.
type TrainingConfig struct {
	// MinSamples is the minimum training corpus size; fewer samples abort
	// training before any model state changes.
	MinSamples int `yaml:"min_samples"`
	// ValidationSplit is the holdout fraction in (0, 0.5].
	ValidationSplit float64 `yaml:"validation_split"`
	// CVFolds is the cross-validation fold count, minimum 2.
	CVFolds int `yaml:"cv_folds"`
	// AlgorithmPriority orders candidates for tie-breaking during selection.
	// Entries must name registered algorithms.
	AlgorithmPriority []string `yaml:"algorithm_priority"`
	// Seed drives every random choice in training so runs are reproducible.
	Seed int64 `yaml:"seed"`
	// IntervalConfidence sets the prediction interval coverage, e.g. 0.95.
	IntervalConfidence float64 `yaml:"interval_confidence"`
}

// RecommendConfig tunes the recommendation engine.
type RecommendConfig struct {
	// MaxResults caps how many recommendations a single call returns.
	MaxResults int `yaml:"max_results"`
}

// New returns a Config populated with defaults. Paths are rooted under the
// user's ecotrack directory (see GetConfigDir); when the home directory
// cannot be determined they stay relative to the working directory.
func New() *Config {
	baseDir, err := GetConfigDir()
	if err != nil {
		baseDir = ".ecotrack"
	}

	return &Config{
		Output: OutputConfig{
			DefaultFormat: "table",
			Precision:     DefaultOutputPrecision,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(baseDir, "ecotrack.db"),
			ModelDir:     filepath.Join(baseDir, "models"),
		},
		Features: FeaturesConfig{
			WindowDays: DefaultWindowDays,
		},
		Training: TrainingConfig{
			MinSamples:         DefaultMinTrainingSamples,
			ValidationSplit:    DefaultValidationSplit,
			CVFolds:            DefaultCVFolds,
			AlgorithmPriority:  []string{"gradient_boosting", "random_forest", "ridge"},
			Seed:               DefaultSeed,
			IntervalConfidence: DefaultIntervalConfidence,
		},
		Recommendations: RecommendConfig{
			MaxResults: DefaultMaxRecommendations,
		},
	}
}

// DefaultConfigPath returns the path of the user's config.yaml inside the
// ecotrack configuration directory.
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Save writes the configuration as YAML to path, creating the parent
// directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration to %s: %w", path, err)
	}
	return nil
}

// LoadWithOverlay builds the effective configuration: defaults from New,
// then the overlay file shallow-merged on top when it exists, then
// validation. A missing overlay file is not an error.
func LoadWithOverlay(overlayPath string) (*Config, error) {
	cfg := New()

	if overlayPath != "" {
		if _, err := os.Stat(overlayPath); err == nil {
			if mergeErr := ShallowMergeYAML(cfg, overlayPath); mergeErr != nil {
				return nil, mergeErr
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that would otherwise surface as
// confusing failures deep inside training or feature construction.
func (c *Config) Validate() error {
	if c.Output.Precision < 0 || c.Output.Precision > 10 {
		return fmt.Errorf("%w: output.precision %d outside [0, 10]", ErrInvalidConfig, c.Output.Precision)
	}
	if c.Features.WindowDays < 7 {
		return fmt.Errorf("%w: features.window_days %d below minimum 7", ErrInvalidConfig, c.Features.WindowDays)
	}
	if c.Training.MinSamples < 1 {
		return fmt.Errorf("%w: training.min_samples %d must be positive", ErrInvalidConfig, c.Training.MinSamples)
	}
	if c.Training.ValidationSplit <= 0 || c.Training.ValidationSplit > 0.5 {
		return fmt.Errorf("%w: training.validation_split %.3f outside (0, 0.5]", ErrInvalidConfig, c.Training.ValidationSplit)
	}
	if c.Training.CVFolds < 2 {
		return fmt.Errorf("%w: training.cv_folds %d below minimum 2", ErrInvalidConfig, c.Training.CVFolds)
	}
	if len(c.Training.AlgorithmPriority) == 0 {
		return fmt.Errorf("%w: training.algorithm_priority must not be empty", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Training.AlgorithmPriority))
	for _, name := range c.Training.AlgorithmPriority {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return fmt.Errorf("%w: training.algorithm_priority contains an empty entry", ErrInvalidConfig)
		}
		if seen[trimmed] {
			return fmt.Errorf("%w: training.algorithm_priority lists %q twice", ErrInvalidConfig, trimmed)
		}
		seen[trimmed] = true
	}
	if c.Training.IntervalConfidence <= 0 || c.Training.IntervalConfidence >= 1 {
		return fmt.Errorf("%w: training.interval_confidence %.3f outside (0, 1)", ErrInvalidConfig, c.Training.IntervalConfidence)
	}
	if c.Recommendations.MaxResults < 1 {
		return fmt.Errorf("%w: recommendations.max_results %d must be positive", ErrInvalidConfig, c.Recommendations.MaxResults)
	}
	return nil
}
