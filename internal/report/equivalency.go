package report

import (
	"fmt"
	"math"
)

// EPA greenhouse gas equivalency factors (2024 edition), kg CO2e per
// unit of each activity. An equivalency is kg divided by the factor.
// Source: https://www.epa.gov/energy/greenhouse-gas-equivalencies-calculator
const (
	// MilesDrivenFactorKg is kg CO2e per mile for an average passenger
	// vehicle.
	MilesDrivenFactorKg = 0.192

	// SmartphoneChargeFactorKg is kg CO2e per full smartphone charge.
	SmartphoneChargeFactorKg = 0.00822

	// TreeSeedlingFactorKg is kg CO2e absorbed by one tree seedling
	// grown for 10 years.
	TreeSeedlingFactorKg = 60.0

	// HomeDayFactorKg is kg CO2e per day of average US home electricity.
	HomeDayFactorKg = 18.3
)

// MinEquivalencyKg is the floor below which equivalencies are
// suppressed; under 1 kg the numbers become meaninglessly small.
const MinEquivalencyKg = 1.0

// Equivalency is one real-world comparison for an emission quantity.
type Equivalency struct {
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

// Equivalencies converts kilograms of CO2e into real-world comparisons
// using the EPA factors: miles driven, smartphones charged, tree
// seedlings, and home electricity days. Returns nil when kg is below
// MinEquivalencyKg.
func Equivalencies(kg float64) []Equivalency {
	if kg < MinEquivalencyKg {
		return nil
	}

	build := func(label string, factor float64) Equivalency {
		v := kg / factor
		return Equivalency{Label: label, Value: v, Formatted: equivalencyValue(v)}
	}

	return []Equivalency{
		build("miles driven", MilesDrivenFactorKg),
		build("smartphones charged", SmartphoneChargeFactorKg),
		build("tree seedlings grown for 10 years", TreeSeedlingFactorKg),
		build("days of home electricity", HomeDayFactorKg),
	}
}

// EquivalencyText is the one-line display form, e.g. "Equivalent to
// driving ~782 miles or charging ~18,248 smartphones". Empty below the
// threshold.
func EquivalencyText(kg float64) string {
	eqs := Equivalencies(kg)
	if len(eqs) == 0 {
		return ""
	}
	return fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
		eqs[0].Formatted, eqs[1].Formatted)
}

// equivalencyValue rounds to a whole count with separators, switching to
// abbreviated form at million scale.
func equivalencyValue(v float64) string {
	if v >= millionThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
