package features

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors comparable with errors.Is().
var (
	// ErrInsufficientHistory indicates too few observed days inside the
	// feature window. The wrapping error carries required vs actual counts.
	ErrInsufficientHistory = constError("insufficient history for feature construction")

	// ErrInvalidProfile indicates a profile that cannot be encoded.
	ErrInvalidProfile = constError("invalid user profile")

	// ErrInvalidWindow indicates a window length below the observation
	// minimum.
	ErrInvalidWindow = constError("invalid feature window")
)
