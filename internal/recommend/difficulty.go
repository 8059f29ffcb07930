package recommend

import (
	"encoding/json"
	"fmt"
)

// Difficulty ranks how hard an intervention is to adopt. The ordinal order
// matters: ties in ranking score resolve toward lower difficulty so easy
// wins surface first.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver; String/MarshalJSON use value receivers.
type Difficulty int

const (
	// DifficultyLow is a cheap habit or one-off swap.
	DifficultyLow Difficulty = iota
	// DifficultyMedium is a recurring behavior change or a purchase.
	DifficultyMedium
	// DifficultyHigh is a structural change such as a vehicle, supply
	// contract, or construction work.
	DifficultyHigh
)

// String returns the lowercase label for a Difficulty.
func (d Difficulty) String() string {
	switch d {
	case DifficultyLow:
		return "low"
	case DifficultyMedium:
		return "medium"
	case DifficultyHigh:
		return "high"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// Valid reports whether the difficulty is within the defined range.
func (d Difficulty) Valid() bool {
	return d >= DifficultyLow && d <= DifficultyHigh
}

// ParseDifficulty converts a label to its Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "low":
		return DifficultyLow, nil
	case "medium":
		return DifficultyMedium, nil
	case "high":
		return DifficultyHigh, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
}

// MarshalJSON implements json.Marshaler to output Difficulty as string.
func (d Difficulty) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler to parse Difficulty from string.
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("parsing difficulty: %w", err)
	}
	parsed, err := ParseDifficulty(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
