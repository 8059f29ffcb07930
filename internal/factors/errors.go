package factors

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors comparable with errors.Is().
var (
	// ErrUnknownFactor indicates a (category, subtype) pair with no catalog
	// entry. Callers must surface this rather than default to zero: a zero
	// default would silently understate the footprint.
	ErrUnknownFactor = constError("unknown emission factor")

	// ErrUnknownCategory indicates a category label outside the four
	// defined domains.
	ErrUnknownCategory = constError("unknown category")

	// ErrDuplicateFactor indicates a factor table defining the same
	// (category, subtype) pair twice.
	ErrDuplicateFactor = constError("duplicate emission factor")

	// ErrInvalidFactor indicates a malformed factor entry: missing subtype
	// or unit, or a negative or non-finite coefficient.
	ErrInvalidFactor = constError("invalid emission factor")
)
