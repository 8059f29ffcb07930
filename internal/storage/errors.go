package storage

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// ErrNoProfile indicates no user profile has been stored yet.
var ErrNoProfile = constError("no profile stored")
