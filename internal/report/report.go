// Package report turns emission numbers into presentation-ready data:
// formatted quantities, annual benchmark comparisons, a sustainability
// score, and real-world equivalencies like "miles driven".
//
// Everything here is a pure function over plain values. The package never
// touches storage or models; the CLI assembles its output from the engine
// packages and uses report to make the numbers readable.
package report

// Daily emission level thresholds in kg CO2e per day.
const (
	levelLowMaxKg    = 10.0
	levelMediumMaxKg = 25.0
	levelHighMaxKg   = 50.0
)

// Level labels for daily emission totals.
const (
	LevelLow      = "Low"
	LevelMedium   = "Medium"
	LevelHigh     = "High"
	LevelVeryHigh = "Very High"
)

// Level classifies a daily emission total into a coarse band. The bands
// are calibrated so a typical US household lands in Medium or High.
func Level(dailyKg float64) string {
	switch {
	case dailyKg < levelLowMaxKg:
		return LevelLow
	case dailyKg < levelMediumMaxKg:
		return LevelMedium
	case dailyKg < levelHighMaxKg:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// scoreBand maps a daily emission ceiling to a score and letter grade.
type scoreBand struct {
	maxDailyKg float64
	score      int
	grade      string
}

// scoreBands in ascending ceiling order. The final band catches
// everything above the last ceiling.
//
//nolint:gochecknoglobals // fixed grading table
var scoreBands = []scoreBand{
	{5, 95, "A+"},
	{10, 85, "A"},
	{20, 75, "B+"},
	{30, 65, "B"},
	{45, 55, "C+"},
	{60, 45, "C"},
	{80, 35, "D"},
}

// Score grades a daily emission total on a 0-100 sustainability scale.
// Lower emissions score higher; anything above 80 kg/day is an F. The
// scale is a communication device, not a scientific measure.
func Score(dailyKg float64) (int, string) {
	for _, band := range scoreBands {
		if dailyKg <= band.maxDailyKg {
			return band.score, band.grade
		}
	}
	return 25, "F"
}

// PercentChange returns the percentage change from old to new. A zero
// old value yields 0 rather than a division blowup; the caller decides
// how to present "no baseline".
func PercentChange(oldValue, newValue float64) float64 {
	if oldValue == 0 {
		return 0
	}
	return (newValue - oldValue) / oldValue * 100
}
