// Package features turns footprint history plus a static user profile into
// the fixed-order numeric vector consumed by the forecast models.
//
// The layout is versioned: SchemaVersion binds persisted models to the
// exact vector shape they were trained on. Any change to the feature
// count, order, or semantics must increment SchemaVersion, which
// invalidates previously persisted models at load time.
package features

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/footprint"
)

// SchemaVersion identifies the current feature vector layout.
const SchemaVersion = 1

// MinObservedDays is the minimum number of days with logged data inside
// the window. Below this the builder refuses: padding alone would make
// every derived statistic an artifact of imputation.
const MinObservedDays = 7

// Feature positions in the vector. The order is frozen per SchemaVersion.
const (
	idxHouseholdSize = iota
	idxRegionClass
	idxDietClass
	idxDailyMeanTotal
	idxDailyStdTotal
	idxTransportShare
	idxEnergyShare
	idxFoodShare
	idxWasteShare
	idxTrendSlope
	idxWeekendRatio
	idxMonthSin
	idxMonthCos
	idxLoggedDaysRatio

	// Count is the feature vector length for SchemaVersion 1.
	Count
)

// Vector is a feature vector in schema order. Values are raw; standard
// scaling is applied by the model manager using parameters persisted with
// the trained model, never recomputed per user.
type Vector []float64

// Names returns the feature names in vector order. The forecast models use
// these to label importances.
func Names() []string {
	return []string{
		"household_size",
		"region_class",
		"diet_class",
		"daily_mean_total",
		"daily_std_total",
		"transport_share",
		"energy_share",
		"food_share",
		"waste_share",
		"trend_slope",
		"weekend_ratio",
		"month_sin",
		"month_cos",
		"logged_days_ratio",
	}
}

// BuildInfo describes how a vector was constructed. ImputedDays counts the
// zero-emission placeholders padded into the window; callers surface it so
// sparse logging is visible rather than silently absorbed.
type BuildInfo struct {
	SchemaVersion int       `json:"schema_version"`
	WindowDays    int       `json:"window_days"`
	WindowEnd     time.Time `json:"window_end"`
	ObservedDays  int       `json:"observed_days"`
	ImputedDays   int       `json:"imputed_days"`
}

// Builder constructs feature vectors over a fixed-length history window.
type Builder struct {
	windowDays int
}

// NewBuilder returns a Builder over the given window length. The window
// must allow at least MinObservedDays of observations.
func NewBuilder(windowDays int) (*Builder, error) {
	if windowDays < MinObservedDays {
		return nil, fmt.Errorf("%w: %d days, minimum %d", ErrInvalidWindow, windowDays, MinObservedDays)
	}
	return &Builder{windowDays: windowDays}, nil
}

// WindowDays returns the configured window length.
func (b *Builder) WindowDays() int {
	return b.windowDays
}

// Build constructs the feature vector for the window ending on at's UTC
// calendar day. History entries outside the window are ignored; days
// inside the window with no entry are padded as zero-emission placeholders
// and reported via BuildInfo.ImputedDays.
//
// Fewer than MinObservedDays observed days inside the window returns
// ErrInsufficientHistory. Identical history, profile, and at always
// produce an identical vector.
func (b *Builder) Build(history []footprint.Result, profile Profile, at time.Time) (Vector, BuildInfo, error) {
	if err := profile.Validate(); err != nil {
		return nil, BuildInfo{}, err
	}

	windowEnd := footprint.DayOf(at)
	windowStart := windowEnd.AddDate(0, 0, -(b.windowDays - 1))

	byDay := make(map[time.Time]footprint.Result, len(history))
	for _, r := range history {
		day := footprint.DayOf(r.Date)
		if day.Before(windowStart) || day.After(windowEnd) {
			continue
		}
		byDay[day] = r
	}

	observed := len(byDay)
	if observed < MinObservedDays {
		return nil, BuildInfo{}, fmt.Errorf("%w: need %d observed days in window, have %d",
			ErrInsufficientHistory, MinObservedDays, observed)
	}

	// Walk the window in order, padding gaps. Totals include padded zeros
	// (a quiet window really does mean lower logged emissions); trend and
	// weekday/weekend statistics use observed days only, because synthetic
	// zeros would fabricate a downward trend that was never logged.
	var (
		totals        = make([]float64, 0, b.windowDays)
		sumTransport  float64
		sumEnergy     float64
		sumFood       float64
		sumWaste      float64
		trendX        = make([]float64, 0, observed)
		trendY        = make([]float64, 0, observed)
		weekendTotals []float64
		weekdayTotals []float64
	)

	for i := 0; i < b.windowDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		r, ok := byDay[day]
		if !ok {
			totals = append(totals, 0)
			continue
		}

		totals = append(totals, r.Total)
		sumTransport += r.Transport
		sumEnergy += r.Energy
		sumFood += r.Food
		sumWaste += r.Waste

		trendX = append(trendX, float64(i))
		trendY = append(trendY, r.Total)

		switch day.Weekday() {
		case time.Saturday, time.Sunday:
			weekendTotals = append(weekendTotals, r.Total)
		default:
			weekdayTotals = append(weekdayTotals, r.Total)
		}
	}

	sumTotal := sumTransport + sumEnergy + sumFood + sumWaste

	shares := [4]float64{}
	if sumTotal > 0 {
		shares[0] = sumTransport / sumTotal
		shares[1] = sumEnergy / sumTotal
		shares[2] = sumFood / sumTotal
		shares[3] = sumWaste / sumTotal
	}

	_, slope := stat.LinearRegression(trendX, trendY, nil, false)

	monthAngle := 2 * math.Pi * float64(windowEnd.Month()) / 12

	v := make(Vector, Count)
	v[idxHouseholdSize] = float64(profile.HouseholdSize)
	v[idxRegionClass] = float64(profile.Region)
	v[idxDietClass] = float64(profile.Diet)
	v[idxDailyMeanTotal] = stat.Mean(totals, nil)
	v[idxDailyStdTotal] = stat.StdDev(totals, nil)
	v[idxTransportShare] = shares[0]
	v[idxEnergyShare] = shares[1]
	v[idxFoodShare] = shares[2]
	v[idxWasteShare] = shares[3]
	v[idxTrendSlope] = slope
	v[idxWeekendRatio] = weekendRatio(weekendTotals, weekdayTotals)
	v[idxMonthSin] = math.Sin(monthAngle)
	v[idxMonthCos] = math.Cos(monthAngle)
	v[idxLoggedDaysRatio] = float64(observed) / float64(b.windowDays)

	info := BuildInfo{
		SchemaVersion: SchemaVersion,
		WindowDays:    b.windowDays,
		WindowEnd:     windowEnd,
		ObservedDays:  observed,
		ImputedDays:   b.windowDays - observed,
	}
	return v, info, nil
}

// weekendRatio is mean weekend total over mean weekday total for observed
// days. It falls back to 1 (no weekend effect) when either side has no
// observations or the weekday mean is zero, since a ratio against nothing
// carries no signal.
func weekendRatio(weekend, weekday []float64) float64 {
	if len(weekend) == 0 || len(weekday) == 0 {
		return 1
	}
	weekdayMean := stat.Mean(weekday, nil)
	if weekdayMean == 0 {
		return 1
	}
	return stat.Mean(weekend, nil) / weekdayMean
}

// CategoryForShareFeature maps a share feature name to its category. The
// recommendation engine uses this to translate model importances into
// per-category weights.
func CategoryForShareFeature(name string) (factors.Category, bool) {
	switch name {
	case "transport_share":
		return factors.CategoryTransport, true
	case "energy_share":
		return factors.CategoryEnergy, true
	case "food_share":
		return factors.CategoryFood, true
	case "waste_share":
		return factors.CategoryWaste, true
	default:
		return 0, false
	}
}
