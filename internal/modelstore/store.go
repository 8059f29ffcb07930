// Package modelstore persists trained model artifacts as JSON files with
// atomic replace semantics: an artifact is written to a temp file and
// renamed over the previous one, so concurrent readers always see either
// the old or the new artifact, never a partial write. A PID lockfile
// coordinates writers across processes (the training CLI and a serving
// process may run side by side).
package modelstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/oklog/ulid/v2"
)

// ArtifactFormatVersion is the format version stamped into new artifacts.
const ArtifactFormatVersion = "1.0.0"

// supportedFormats is the semver range of artifact formats this build can
// read: any 1.x artifact.
//
//nolint:gochecknoglobals // compile-time constraint, parsed once
var supportedFormats = mustConstraint("^1")

func mustConstraint(expr string) *semver.Constraints {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		panic(fmt.Sprintf("modelstore: invalid version constraint %q: %v", expr, err))
	}
	return c
}

// artifactFileName is the single active artifact inside the store
// directory. The selected model plus its metadata is the unit of
// persistence; superseded artifacts are simply overwritten.
const artifactFileName = "model.json"

// Artifact is the persisted trained model: the serialized algorithm
// parameters plus everything needed to validate and apply them at load
// time. Params and Scaler are opaque to the store; the forecast package
// owns their encoding.
type Artifact struct {
	FormatVersion        string             `json:"format_version"`
	ModelID              string             `json:"model_id"`
	Algorithm            string             `json:"algorithm"`
	FeatureSchemaVersion int                `json:"feature_schema_version"`
	FeatureNames         []string           `json:"feature_names"`
	SampleCount          int                `json:"sample_count"`
	Metrics              map[string]float64 `json:"metrics"`
	ResidualStd          float64            `json:"residual_std"`
	IntervalConfidence   float64            `json:"interval_confidence"`
	TrainedAt            time.Time          `json:"trained_at"`
	Params               json.RawMessage    `json:"params"`
	Scaler               json.RawMessage    `json:"scaler"`
}

// NewModelID returns a fresh ULID for a trained model. ULIDs sort by
// creation time, which makes artifact logs and debugging output naturally
// chronological.
func NewModelID() string {
	return ulid.Make().String()
}

// Store reads and writes model artifacts under one directory.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates a store rooted at dir, creating the directory if
// needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("modelstore: empty directory")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating model directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the active artifact's file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, artifactFileName)
}

// Exists reports whether an artifact has been persisted.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Save atomically replaces the active artifact. The write order is
// temp-file then rename; on any failure the previous artifact is left
// untouched.
func (s *Store) Save(a *Artifact) error {
	if err := validateArtifact(a); err != nil {
		return err
	}

	unlock, err := s.acquireFileLock()
	if err != nil {
		return fmt.Errorf("acquiring model lock: %w", err)
	}
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling model artifact: %w", err)
	}

	tmpPath := s.Path() + ".tmp"
	if writeErr := os.WriteFile(tmpPath, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing model artifact temp file: %w", writeErr)
	}

	if renameErr := os.Rename(tmpPath, s.Path()); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming model artifact temp file: %w", renameErr)
	}

	return nil
}

// Load reads the active artifact and validates it against the caller's
// feature schema version. A missing file is ErrNoArtifact; unparsable or
// structurally invalid content is ErrArtifactCorrupted; an incompatible
// format version is ErrArtifactVersion; a feature schema mismatch is
// ErrSchemaMismatch with expected vs actual versions.
func (s *Store) Load(expectedSchemaVersion int) (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNoArtifact, s.Path())
		}
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}

	var a Artifact
	if unmarshalErr := json.Unmarshal(data, &a); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactCorrupted, unmarshalErr)
	}

	if err := checkFormatVersion(a.FormatVersion); err != nil {
		return nil, err
	}
	if err := validateArtifact(&a); err != nil {
		return nil, err
	}

	if a.FeatureSchemaVersion != expectedSchemaVersion {
		return nil, fmt.Errorf("%w: artifact has schema v%d, current builder is v%d",
			ErrSchemaMismatch, a.FeatureSchemaVersion, expectedSchemaVersion)
	}

	return &a, nil
}

// checkFormatVersion verifies the artifact format is one this build reads.
func checkFormatVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: unparsable format version %q", ErrArtifactVersion, version)
	}
	if !supportedFormats.Check(v) {
		return fmt.Errorf("%w: %s (supported: 1.x)", ErrArtifactVersion, version)
	}
	return nil
}

// validateArtifact checks the structural invariants an artifact must hold
// regardless of direction (save or load).
func validateArtifact(a *Artifact) error {
	if a == nil {
		return fmt.Errorf("%w: nil artifact", ErrArtifactCorrupted)
	}
	if a.FormatVersion == "" {
		return fmt.Errorf("%w: missing format version", ErrArtifactCorrupted)
	}
	if a.ModelID == "" {
		return fmt.Errorf("%w: missing model id", ErrArtifactCorrupted)
	}
	if a.Algorithm == "" {
		return fmt.Errorf("%w: missing algorithm", ErrArtifactCorrupted)
	}
	if a.FeatureSchemaVersion < 1 {
		return fmt.Errorf("%w: feature schema version %d", ErrArtifactCorrupted, a.FeatureSchemaVersion)
	}
	if len(a.Params) == 0 {
		return fmt.Errorf("%w: empty model parameters", ErrArtifactCorrupted)
	}
	if len(a.Scaler) == 0 {
		return fmt.Errorf("%w: empty scaler parameters", ErrArtifactCorrupted)
	}
	return nil
}
