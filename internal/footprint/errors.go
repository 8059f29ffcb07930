package footprint

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors comparable with errors.Is().
var (
	// ErrInvalidQuantity indicates a negative, NaN, or infinite quantity.
	// Input validation belongs to the collection layer; this is the last
	// line of defense before a bad value poisons a total.
	ErrInvalidQuantity = constError("invalid activity quantity")

	// ErrUnitMismatch indicates a logged unit that contradicts the factor
	// table's unit for the activity. The calculator never converts units.
	ErrUnitMismatch = constError("activity unit does not match factor unit")

	// ErrMixedDates indicates an aggregate call over records from more than
	// the requested day.
	ErrMixedDates = constError("activity records span multiple days")
)
