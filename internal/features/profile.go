package features

import (
	"encoding/json"
	"fmt"
)

// RegionClass encodes where the user lives. The ordinal value feeds the
// feature vector directly, so the ordering is part of the feature schema.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver; String/MarshalJSON use value receivers.
type RegionClass int

const (
	// RegionUrban is dense city living.
	RegionUrban RegionClass = iota
	// RegionSuburban is lower-density residential areas.
	RegionSuburban
	// RegionRural is countryside living.
	RegionRural
)

// String returns the lowercase label for a RegionClass.
func (r RegionClass) String() string {
	switch r {
	case RegionUrban:
		return "urban"
	case RegionSuburban:
		return "suburban"
	case RegionRural:
		return "rural"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// Valid reports whether the region is within the defined range.
func (r RegionClass) Valid() bool {
	return r >= RegionUrban && r <= RegionRural
}

// ParseRegionClass converts a label to its RegionClass.
func ParseRegionClass(s string) (RegionClass, error) {
	switch s {
	case "urban":
		return RegionUrban, nil
	case "suburban":
		return RegionSuburban, nil
	case "rural":
		return RegionRural, nil
	default:
		return 0, fmt.Errorf("%w: region %q", ErrInvalidProfile, s)
	}
}

// MarshalJSON implements json.Marshaler to output RegionClass as string.
func (r RegionClass) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON implements json.Unmarshaler to parse RegionClass from string.
func (r *RegionClass) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("parsing region class: %w", err)
	}
	parsed, err := ParseRegionClass(str)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// DietClass encodes the user's diet on an emission-intensity ordinal:
// lower values mean lower typical food emissions. The ordinal feeds the
// feature vector directly.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver; String/MarshalJSON use value receivers.
type DietClass int

const (
	// DietVegan excludes all animal products.
	DietVegan DietClass = iota
	// DietVegetarian excludes meat and fish.
	DietVegetarian
	// DietAverage is a mixed diet.
	DietAverage
	// DietMeatHeavy is meat at most meals.
	DietMeatHeavy
)

// String returns the lowercase label for a DietClass.
func (d DietClass) String() string {
	switch d {
	case DietVegan:
		return "vegan"
	case DietVegetarian:
		return "vegetarian"
	case DietAverage:
		return "average"
	case DietMeatHeavy:
		return "meat_heavy"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// Valid reports whether the diet is within the defined range.
func (d DietClass) Valid() bool {
	return d >= DietVegan && d <= DietMeatHeavy
}

// ParseDietClass converts a label to its DietClass.
func ParseDietClass(s string) (DietClass, error) {
	switch s {
	case "vegan":
		return DietVegan, nil
	case "vegetarian":
		return DietVegetarian, nil
	case "average":
		return DietAverage, nil
	case "meat_heavy":
		return DietMeatHeavy, nil
	default:
		return 0, fmt.Errorf("%w: diet %q", ErrInvalidProfile, s)
	}
}

// MarshalJSON implements json.Marshaler to output DietClass as string.
func (d DietClass) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler to parse DietClass from string.
func (d *DietClass) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("parsing diet class: %w", err)
	}
	parsed, err := ParseDietClass(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Profile holds the static user attributes that enter the feature vector.
type Profile struct {
	HouseholdSize int         `json:"household_size"`
	Region        RegionClass `json:"region"`
	Diet          DietClass   `json:"diet"`
}

// Validate checks that the profile can be encoded.
func (p Profile) Validate() error {
	if p.HouseholdSize < 1 {
		return fmt.Errorf("%w: household size %d must be at least 1", ErrInvalidProfile, p.HouseholdSize)
	}
	if !p.Region.Valid() {
		return fmt.Errorf("%w: region %d out of range", ErrInvalidProfile, int(p.Region))
	}
	if !p.Diet.Valid() {
		return fmt.Errorf("%w: diet %d out of range", ErrInvalidProfile, int(p.Diet))
	}
	return nil
}
