package recommend

import (
	"encoding/json"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/footprint"
)

// trendWindowDays is the length of the two comparison windows. Direction
// and weekday patterns both require two full windows of history.
const trendWindowDays = 7

const (
	// trendRiseRatio is the recent-over-previous mean ratio above which
	// the trend counts as rising.
	trendRiseRatio = 1.1
	// trendFallRatio is the ratio below which the trend counts as falling.
	trendFallRatio = 0.9
	// weekdayGapRatio is the peak-over-quiet weekday mean ratio above
	// which a weekly pattern is reported.
	weekdayGapRatio = 1.5
)

// TrendDirection classifies the short-term movement of daily totals.
type TrendDirection int

const (
	// TrendStable means no significant change, or too little history to
	// tell.
	TrendStable TrendDirection = iota
	// TrendRising means recent emissions are at least 10% above the
	// previous week's.
	TrendRising
	// TrendFalling means recent emissions are at least 10% below the
	// previous week's.
	TrendFalling
)

// String returns the lowercase label for a TrendDirection.
func (d TrendDirection) String() string {
	switch d {
	case TrendStable:
		return "stable"
	case TrendRising:
		return "rising"
	case TrendFalling:
		return "falling"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// MarshalJSON implements json.Marshaler to output TrendDirection as string.
func (d TrendDirection) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Trend summarizes recent emission history for the recommendation engine.
// The zero value is a stable trend with nothing to report.
type Trend struct {
	Direction TrendDirection `json:"direction"`

	// RecentMean is the mean daily total over the most recent window,
	// up to seven days. PreviousMean covers the up to seven days before
	// that and is zero when no earlier history exists.
	RecentMean   float64 `json:"recent_mean"`
	PreviousMean float64 `json:"previous_mean"`

	// TopCategory is the highest-emission category across the analyzed
	// history. Meaningful only when HasTopCategory is set.
	TopCategory    factors.Category `json:"top_category"`
	HasTopCategory bool             `json:"has_top_category"`

	// PeakWeekday and QuietWeekday mark a weekly usage pattern: the
	// highest and lowest mean-emission weekdays. Set once at least two
	// full weeks exist and the peak mean exceeds 1.5 times the quiet
	// mean, a gap wide enough to suggest a reschedulable habit.
	PeakWeekday       time.Weekday `json:"peak_weekday"`
	QuietWeekday      time.Weekday `json:"quiet_weekday"`
	HasWeekdayPattern bool         `json:"has_weekday_pattern"`
}

// AnalyzeTrend summarizes daily history for the recommendation engine.
// history must be in ascending date order, one entry per day, as the
// persistence layer returns it.
//
// Direction compares the mean of the last seven days against the mean of
// the seven days before; fewer than two full weeks always reports stable,
// since shorter windows would flag noise as movement.
func AnalyzeTrend(history []footprint.Result) Trend {
	var t Trend
	n := len(history)
	if n == 0 {
		return t
	}

	totals := make(map[factors.Category]float64, len(factors.Categories()))
	var grand float64
	for _, r := range history {
		for _, c := range factors.Categories() {
			totals[c] += r.ForCategory(c)
			grand += r.ForCategory(c)
		}
	}
	if grand > 0 {
		t.TopCategory = dominantCategory(totals)
		t.HasTopCategory = true
	}

	recentStart := max(0, n-trendWindowDays)
	t.RecentMean = meanTotal(history[recentStart:])
	previousStart := max(0, recentStart-trendWindowDays)
	t.PreviousMean = meanTotal(history[previousStart:recentStart])

	if n >= 2*trendWindowDays {
		switch {
		case t.PreviousMean == 0:
			if t.RecentMean > 0 {
				t.Direction = TrendRising
			}
		case t.RecentMean > t.PreviousMean*trendRiseRatio:
			t.Direction = TrendRising
		case t.RecentMean < t.PreviousMean*trendFallRatio:
			t.Direction = TrendFalling
		}

		if peak, quiet, ok := weekdayExtremes(history); ok {
			t.PeakWeekday = peak
			t.QuietWeekday = quiet
			t.HasWeekdayPattern = true
		}
	}
	return t
}

func meanTotal(results []footprint.Result) float64 {
	if len(results) == 0 {
		return 0
	}
	vals := make([]float64, len(results))
	for i, r := range results {
		vals[i] = r.Total
	}
	return stat.Mean(vals, nil)
}

// weekdayExtremes finds the highest and lowest mean-emission weekdays.
// ok is false when all observed weekdays are equal or the gap between the
// extremes is too narrow to call a pattern. Ties resolve to the earliest
// weekday, Sunday first.
func weekdayExtremes(history []footprint.Result) (peak, quiet time.Weekday, ok bool) {
	var sums, counts [7]float64
	for _, r := range history {
		wd := footprint.DayOf(r.Date).Weekday()
		sums[wd] += r.Total
		counts[wd]++
	}

	first := true
	var peakMean, quietMean float64
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if counts[wd] == 0 {
			continue
		}
		mean := sums[wd] / counts[wd]
		if first {
			peak, quiet = wd, wd
			peakMean, quietMean = mean, mean
			first = false
			continue
		}
		if mean > peakMean {
			peak, peakMean = wd, mean
		}
		if mean < quietMean {
			quiet, quietMean = wd, mean
		}
	}
	if first || peak == quiet {
		return 0, 0, false
	}
	return peak, quiet, peakMean > quietMean*weekdayGapRatio
}
