package recommend

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// ErrInvalidDifficulty indicates a difficulty label outside low, medium,
// and high.
var ErrInvalidDifficulty = constError("invalid difficulty")
