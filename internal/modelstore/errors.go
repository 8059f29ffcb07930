package modelstore

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors comparable with errors.Is().
var (
	// ErrNoArtifact indicates no model has been persisted yet. Callers
	// treat this as "train first", not as corruption.
	ErrNoArtifact = constError("no model artifact")

	// ErrArtifactCorrupted indicates the artifact file exists but cannot
	// be parsed or fails structural validation. Callers should abort
	// rather than silently retrain over evidence of a bug.
	ErrArtifactCorrupted = constError("model artifact corrupted")

	// ErrArtifactVersion indicates an artifact written by an incompatible
	// format version.
	ErrArtifactVersion = constError("unsupported artifact format version")

	// ErrSchemaMismatch indicates the artifact was trained against a
	// different feature schema version than the current builder produces.
	// The wrapping error carries expected vs actual versions.
	ErrSchemaMismatch = constError("feature schema version mismatch")
)
