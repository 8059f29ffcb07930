// Package factors provides the emission factor catalog: the immutable
// mapping from (category, subtype) activity pairs to kg CO2e per unit.
//
// The catalog is loaded once at process start, either from the built-in
// table (IPCC-derived values) or from an operator-supplied YAML file.
// Lookups never default: a missing pair is an error, because silently
// returning zero would understate the footprint.
package factors

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Category classifies an activity into one of the four emission domains.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver; String/MarshalJSON use value receivers.
type Category int

const (
	// CategoryTransport covers travel activities measured in miles.
	CategoryTransport Category = iota
	// CategoryEnergy covers household energy use (kWh, therms, gallons).
	CategoryEnergy
	// CategoryFood covers food consumption measured in kg.
	CategoryFood
	// CategoryWaste covers waste disposal measured in kg.
	CategoryWaste
)

// Categories lists all valid categories in stable order.
func Categories() []Category {
	return []Category{CategoryTransport, CategoryEnergy, CategoryFood, CategoryWaste}
}

// String returns the lowercase label for a Category.
func (c Category) String() string {
	switch c {
	case CategoryTransport:
		return "transport"
	case CategoryEnergy:
		return "energy"
	case CategoryFood:
		return "food"
	case CategoryWaste:
		return "waste"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// Valid reports whether the category is within the defined range.
func (c Category) Valid() bool {
	return c >= CategoryTransport && c <= CategoryWaste
}

// ParseCategory converts a label to its Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "transport":
		return CategoryTransport, nil
	case "energy":
		return CategoryEnergy, nil
	case "food":
		return CategoryFood, nil
	case "waste":
		return CategoryWaste, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// MarshalJSON implements json.Marshaler to output Category as string.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON implements json.Unmarshaler to parse Category from string.
func (c *Category) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("parsing category: %w", err)
	}
	parsed, err := ParseCategory(str)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler to output Category as string.
func (c Category) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler to parse Category from string.
func (c *Category) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return fmt.Errorf("parsing category: %w", err)
	}
	parsed, err := ParseCategory(str)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Factor is one emission factor: kg CO2e emitted per unit of activity.
type Factor struct {
	Category     Category `json:"category"      yaml:"category"`
	Subtype      string   `json:"subtype"       yaml:"subtype"`
	Unit         string   `json:"unit"          yaml:"unit"`
	KgCO2PerUnit float64  `json:"kg_co2_per_unit" yaml:"kg_co2_per_unit"`
}

// key identifies a factor inside the catalog.
type key struct {
	category Category
	subtype  string
}

// Catalog is an immutable factor table. Construct with NewCatalog, Default,
// or LoadYAML; safe for concurrent use after construction.
type Catalog struct {
	byKey map[key]Factor
}

// NewCatalog builds a catalog from a factor list, rejecting duplicate
// (category, subtype) pairs and malformed entries. Zero factors are legal
// (bicycle, walking, recycling all emit nothing); negative or non-finite
// factors are not.
func NewCatalog(list []Factor) (*Catalog, error) {
	byKey := make(map[key]Factor, len(list))
	for _, f := range list {
		if !f.Category.Valid() {
			return nil, fmt.Errorf("%w: category %d for subtype %q", ErrInvalidFactor, int(f.Category), f.Subtype)
		}
		if f.Subtype == "" {
			return nil, fmt.Errorf("%w: empty subtype in category %s", ErrInvalidFactor, f.Category)
		}
		if f.Unit == "" {
			return nil, fmt.Errorf("%w: empty unit for %s/%s", ErrInvalidFactor, f.Category, f.Subtype)
		}
		if f.KgCO2PerUnit < 0 || math.IsNaN(f.KgCO2PerUnit) || math.IsInf(f.KgCO2PerUnit, 0) {
			return nil, fmt.Errorf("%w: factor %v for %s/%s", ErrInvalidFactor, f.KgCO2PerUnit, f.Category, f.Subtype)
		}

		k := key{category: f.Category, subtype: f.Subtype}
		if _, exists := byKey[k]; exists {
			return nil, fmt.Errorf("%w: %s/%s", ErrDuplicateFactor, f.Category, f.Subtype)
		}
		byKey[k] = f
	}
	return &Catalog{byKey: byKey}, nil
}

// Default returns the built-in factor catalog.
func Default() *Catalog {
	cat, err := NewCatalog(defaultFactors())
	if err != nil {
		// The built-in table is validated by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("built-in factor table invalid: %v", err))
	}
	return cat
}

// factorFile is the YAML document shape for operator-supplied tables.
type factorFile struct {
	Factors []Factor `yaml:"factors"`
}

// LoadYAML reads a complete factor table from path, replacing the built-in
// defaults. The file must define every factor the deployment needs; there
// is no partial overlay, which keeps "which factor applied" trivially
// answerable from one source.
func LoadYAML(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading factor table %s: %w", path, err)
	}

	var doc factorFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing factor table %s: %w", path, err)
	}
	if len(doc.Factors) == 0 {
		return nil, fmt.Errorf("%w: factor table %s defines no factors", ErrInvalidFactor, path)
	}

	cat, err := NewCatalog(doc.Factors)
	if err != nil {
		return nil, fmt.Errorf("validating factor table %s: %w", path, err)
	}
	return cat, nil
}

// Load returns the catalog for the given source path: the built-in table
// when path is empty, otherwise the YAML table at path.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadYAML(path)
}

// Lookup resolves the factor for a (category, subtype) pair. A missing pair
// returns ErrUnknownFactor wrapped with the requested pair; callers must
// propagate the error rather than substitute zero.
func (c *Catalog) Lookup(category Category, subtype string) (Factor, error) {
	f, ok := c.byKey[key{category: category, subtype: subtype}]
	if !ok {
		return Factor{}, fmt.Errorf("%w: %s/%s", ErrUnknownFactor, category, subtype)
	}
	return f, nil
}

// Subtypes returns the sorted subtype names defined for a category.
func (c *Catalog) Subtypes(category Category) []string {
	var names []string
	for k := range c.byKey {
		if k.category == category {
			names = append(names, k.subtype)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of factors in the catalog.
func (c *Catalog) Len() int {
	return len(c.byKey)
}
