package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecotrack/ecotrack/internal/config"
	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/features"
	"github.com/ecotrack/ecotrack/internal/forecast"
	"github.com/ecotrack/ecotrack/internal/modelstore"
	"github.com/ecotrack/ecotrack/internal/storage"
)

// Output format values accepted by the --output flag.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// dayLayout is the calendar date format used by all date flags.
const dayLayout = "2006-01-02"

// validateOutputFormat checks that the requested output format is supported.
func validateOutputFormat(format string) error {
	switch format {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("invalid output format %q (expected table or json)", format)
	}
}

// parseDay parses a --date style flag value. An empty value means today.
// The result is truncated to a UTC calendar day.
func parseDay(value string, now time.Time) (time.Time, error) {
	if value == "" {
		u := now.UTC()
		return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.ParseInLocation(dayLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", value, err)
	}
	return t, nil
}

// parseDayRange resolves --from/--to flag values into an inclusive day
// range. Empty --to means today; empty --from means days-1 before --to.
func parseDayRange(fromValue, toValue string, days int, now time.Time) (time.Time, time.Time, error) {
	to, err := parseDay(toValue, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	var from time.Time
	if fromValue == "" {
		if days < 1 {
			days = 1
		}
		from = to.AddDate(0, 0, -(days - 1))
	} else {
		from, err = parseDay(fromValue, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("date range starts after it ends (%s > %s)",
			from.Format(dayLayout), to.Format(dayLayout))
	}
	return from, to, nil
}

// openStore opens the activity database at the configured path.
func openStore() (*storage.Store, error) {
	cfg := config.GetGlobalConfig()
	store, err := storage.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open activity database: %w", err)
	}
	return store, nil
}

// loadCatalog returns the emission factor catalog: the configured YAML
// table when one is set, the built-in defaults otherwise.
func loadCatalog() (*factors.Catalog, error) {
	cfg := config.GetGlobalConfig()
	catalog, err := factors.Load(cfg.Factors.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load emission factors: %w", err)
	}
	return catalog, nil
}

// newBuilder constructs the feature builder from the configured window.
func newBuilder() (*features.Builder, error) {
	cfg := config.GetGlobalConfig()
	builder, err := features.NewBuilder(cfg.Features.WindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to create feature builder: %w", err)
	}
	return builder, nil
}

// newManager constructs the forecast model manager backed by the
// configured artifact directory.
func newManager() (*forecast.Manager, error) {
	cfg := config.GetGlobalConfig()

	artifacts, err := modelstore.NewStore(cfg.Storage.ModelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open model store: %w", err)
	}

	mgr, err := forecast.NewManager(forecast.Config{
		MinSamples:         cfg.Training.MinSamples,
		ValidationSplit:    cfg.Training.ValidationSplit,
		CVFolds:            cfg.Training.CVFolds,
		AlgorithmPriority:  cfg.Training.AlgorithmPriority,
		Seed:               cfg.Training.Seed,
		IntervalConfidence: cfg.Training.IntervalConfidence,
	}, artifacts)
	if err != nil {
		return nil, fmt.Errorf("failed to create forecast manager: %w", err)
	}
	return mgr, nil
}

// loadProfile returns the stored household profile, or a single-person
// suburban average-diet default when none has been saved yet.
func loadProfile(ctx context.Context, store *storage.Store) (features.Profile, error) {
	profile, err := store.Profile(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoProfile) {
			return features.Profile{
				HouseholdSize: 1,
				Region:        features.RegionSuburban,
				Diet:          features.DietAverage,
			}, nil
		}
		return features.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}
