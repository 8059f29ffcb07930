package recommend

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/footprint"
)

// trendStart returns a Sunday, so weekday offsets in these tests are easy
// to read: offset 6 is the first Saturday.
func trendStart() time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
}

// dayResults builds consecutive daily results starting at trendStart, all
// emissions booked under transport.
func dayResults(totals []float64) []footprint.Result {
	out := make([]footprint.Result, len(totals))
	for i, v := range totals {
		out[i] = footprint.Result{
			Date:      trendStart().AddDate(0, 0, i),
			Transport: v,
			Total:     v,
		}
	}
	return out
}

func repeatTotals(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestAnalyzeTrend_EmptyHistory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Trend{}, AnalyzeTrend(nil))
}

func TestAnalyzeTrend_Direction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		totals []float64
		want   TrendDirection
	}{
		{"rising", append(repeatTotals(10, 7), repeatTotals(20, 7)...), TrendRising},
		{"falling", append(repeatTotals(20, 7), repeatTotals(10, 7)...), TrendFalling},
		{"stable inside the band", append(repeatTotals(10, 7), repeatTotals(10.5, 7)...), TrendStable},
		{"stable at the lower band", append(repeatTotals(10, 7), repeatTotals(9.5, 7)...), TrendStable},
		{"rising from a silent week", append(repeatTotals(0, 7), repeatTotals(5, 7)...), TrendRising},
		{"under two weeks is always stable", append(repeatTotals(10, 5), repeatTotals(30, 5)...), TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeTrend(dayResults(tt.totals))
			assert.Equal(t, tt.want, got.Direction)
		})
	}
}

func TestAnalyzeTrend_WindowMeans(t *testing.T) {
	t.Parallel()

	full := AnalyzeTrend(dayResults(append(repeatTotals(10, 7), repeatTotals(20, 7)...)))
	assert.InDelta(t, 20, full.RecentMean, 1e-9)
	assert.InDelta(t, 10, full.PreviousMean, 1e-9)

	// With ten days the recent window still spans seven; the previous
	// window covers whatever is left.
	short := AnalyzeTrend(dayResults(append(repeatTotals(1, 3), repeatTotals(8, 7)...)))
	assert.InDelta(t, 8, short.RecentMean, 1e-9)
	assert.InDelta(t, 1, short.PreviousMean, 1e-9)
	assert.Equal(t, TrendStable, short.Direction)
}

func TestAnalyzeTrend_TopCategory(t *testing.T) {
	t.Parallel()

	history := []footprint.Result{
		{Date: trendStart(), Transport: 5, Energy: 20, Food: 3, Total: 28},
		{Date: trendStart().AddDate(0, 0, 1), Transport: 6, Energy: 15, Waste: 1, Total: 22},
	}

	tr := AnalyzeTrend(history)
	assert.True(t, tr.HasTopCategory)
	assert.Equal(t, factors.CategoryEnergy, tr.TopCategory)

	silent := AnalyzeTrend(dayResults(repeatTotals(0, 5)))
	assert.False(t, silent.HasTopCategory)
}

func TestAnalyzeTrend_WeekdayPattern(t *testing.T) {
	t.Parallel()

	totals := repeatTotals(10, 28)
	for i := 6; i < len(totals); i += 7 {
		totals[i] = 30
	}

	tr := AnalyzeTrend(dayResults(totals))
	require.True(t, tr.HasWeekdayPattern)
	assert.Equal(t, time.Saturday, tr.PeakWeekday)
	assert.Equal(t, time.Sunday, tr.QuietWeekday, "flat weekdays tie toward Sunday")
}

func TestAnalyzeTrend_NoWeekdayPattern(t *testing.T) {
	t.Parallel()

	t.Run("flat history", func(t *testing.T) {
		tr := AnalyzeTrend(dayResults(repeatTotals(10, 28)))
		assert.False(t, tr.HasWeekdayPattern)
	})

	t.Run("gap too narrow", func(t *testing.T) {
		totals := repeatTotals(10, 28)
		for i := 6; i < len(totals); i += 7 {
			totals[i] = 12
		}
		tr := AnalyzeTrend(dayResults(totals))
		assert.False(t, tr.HasWeekdayPattern)
	})

	t.Run("under two weeks", func(t *testing.T) {
		totals := repeatTotals(10, 13)
		totals[6] = 40
		tr := AnalyzeTrend(dayResults(totals))
		assert.False(t, tr.HasWeekdayPattern)
	})
}

func TestTrendDirection_Labels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "stable", TrendStable.String())
	assert.Equal(t, "rising", TrendRising.String())
	assert.Equal(t, "falling", TrendFalling.String())

	data, err := json.Marshal(TrendRising)
	require.NoError(t, err)
	assert.JSONEq(t, `"rising"`, string(data))
}
