// Package forecast trains, selects, persists, and serves the regression
// models that predict a user's annual carbon footprint from feature vectors.
//
// Algorithms are tagged variants of one capability interface (Model) and
// register themselves by name; the Manager trains every configured
// candidate, cross-validates, selects by holdout error, and exposes the
// winner for inference behind a read-write lock. Selection is fully
// deterministic for a fixed dataset, seed, and priority order.
package forecast

import (
	"fmt"
	"sort"
	"sync"
)

// Model is the capability interface every candidate algorithm implements.
// A Model is single-use per training run: the Manager constructs a fresh
// instance from the registry, fits it once, and either discards it or
// promotes it to active.
//
// Fit and Predict operate on scaled feature matrices; scaling is the
// Manager's responsibility so its parameters can be persisted with the
// trained model.
type Model interface {
	// Name returns the registered algorithm identifier.
	Name() string

	// Fit trains the model on n samples of d features each. Implementations
	// must validate shape and refuse empty input.
	Fit(x [][]float64, y []float64) error

	// Predict returns the point estimate for one feature row. The caller
	// guarantees the row length matches the fitted width.
	Predict(x []float64) float64

	// Importances returns per-feature importance weights aligned with the
	// training columns, summing to 1, or nil when the algorithm cannot
	// attribute importance. Callers must treat nil as "unavailable", not
	// as an error.
	Importances() []float64

	// MarshalParams serializes the fitted state for persistence.
	MarshalParams() ([]byte, error)

	// UnmarshalParams restores fitted state previously produced by
	// MarshalParams on the same algorithm.
	UnmarshalParams(data []byte) error
}

// Factory constructs an unfitted Model. The seed drives every random
// choice the algorithm makes so training runs are reproducible.
type Factory func(seed int64) Model

//nolint:gochecknoglobals // algorithm registry is assembled in init funcs
var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds an algorithm factory under name. Registering a duplicate
// name panics: it means two init funcs claim the same identifier, which is
// a programming error.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("forecast: algorithm %q registered twice", name))
	}
	registry[name] = factory
}

// New constructs an unfitted model for the named algorithm.
func New(name string, seed int64) (Model, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return factory(seed), nil
}

// Algorithms returns the registered algorithm names in sorted order.
func Algorithms() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registered reports whether name is a known algorithm.
func Registered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// validateTrainingShape checks the common Fit preconditions shared by all
// algorithms.
func validateTrainingShape(x [][]float64, y []float64) (int, int, error) {
	if len(x) == 0 {
		return 0, 0, fmt.Errorf("%w: empty feature matrix", ErrTrainingData)
	}
	if len(x) != len(y) {
		return 0, 0, fmt.Errorf("%w: %d feature rows but %d targets", ErrTrainingData, len(x), len(y))
	}
	width := len(x[0])
	if width == 0 {
		return 0, 0, fmt.Errorf("%w: zero-width feature rows", ErrTrainingData)
	}
	for i, row := range x {
		if len(row) != width {
			return 0, 0, fmt.Errorf("%w: row %d has %d features, expected %d", ErrTrainingData, i, len(row), width)
		}
	}
	return len(x), width, nil
}
