package config

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors comparable with errors.Is().
var (
	// ErrInvalidConfig indicates a configuration value outside its
	// documented range. The wrapping error names the offending field.
	ErrInvalidConfig = constError("invalid configuration")
)
