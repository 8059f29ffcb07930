package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack/ecotrack/internal/features"
	"github.com/ecotrack/ecotrack/internal/footprint"
)

func historyProfile() features.Profile {
	return features.Profile{HouseholdSize: 2, Region: features.RegionSuburban, Diet: features.DietAverage}
}

// dailyHistory returns one Result per day for n consecutive days starting
// at start, each with the given flat total split across categories.
func dailyHistory(start time.Time, n int, total float64) []footprint.Result {
	out := make([]footprint.Result, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, footprint.Result{
			Date:      start.AddDate(0, 0, i),
			Transport: total * 0.4,
			Energy:    total * 0.3,
			Food:      total * 0.2,
			Waste:     total * 0.1,
			Total:     total,
		})
	}
	return out
}

func TestSamplesFromHistory_FlatHistory(t *testing.T) {
	t.Parallel()

	builder, err := features.NewBuilder(14)
	require.NoError(t, err)

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	history := dailyHistory(start, 40, 20.0)

	samples, err := SamplesFromHistory(builder, historyProfile(), history)
	require.NoError(t, err)
	require.NotEmpty(t, samples)

	// Flat 20 kg/day history annualizes to 7300 kg for every cut point.
	for i, s := range samples {
		require.Len(t, s.Features, features.Count, "sample %d", i)
		assert.InDelta(t, 20.0*daysPerYear, s.Target, 1e-6, "sample %d", i)
	}
}

func TestSamplesFromHistory_SkipsSparseWindows(t *testing.T) {
	t.Parallel()

	builder, err := features.NewBuilder(14)
	require.NoError(t, err)

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	history := dailyHistory(start, 30, 15.0)

	samples, err := SamplesFromHistory(builder, historyProfile(), history)
	require.NoError(t, err)

	// Early cut points lack MinObservedDays behind them, late ones lack
	// lookahead. Viable cuts: index 6 (7 observed days) through index
	// len-1-historyTargetMinDays.
	wantCount := (len(history) - historyTargetMinDays) - (features.MinObservedDays - 1)
	assert.Len(t, samples, wantCount)
}

func TestSamplesFromHistory_TooShort(t *testing.T) {
	t.Parallel()

	builder, err := features.NewBuilder(14)
	require.NoError(t, err)

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	history := dailyHistory(start, 10, 15.0)

	_, err = SamplesFromHistory(builder, historyProfile(), history)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestSamplesFromHistory_LookaheadCap(t *testing.T) {
	t.Parallel()

	builder, err := features.NewBuilder(14)
	require.NoError(t, err)

	// 45 flat days, then a jump. The earliest cut point's capped lookahead
	// ends before the jump, so its target stays flat.
	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	history := dailyHistory(start, 45, 10.0)
	history = append(history, dailyHistory(start.AddDate(0, 0, 45), 30, 40.0)...)

	samples, err := SamplesFromHistory(builder, historyProfile(), history)
	require.NoError(t, err)
	require.NotEmpty(t, samples)

	assert.InDelta(t, 10.0*daysPerYear, samples[0].Target, 1e-6,
		"first viable cut sees only flat days within the lookahead cap")
	last := samples[len(samples)-1]
	assert.InDelta(t, 40.0*daysPerYear, last.Target, 1e-6,
		"last viable cut sees only post-jump days")
}

func TestSamplesFromHistory_InvalidProfile(t *testing.T) {
	t.Parallel()

	builder, err := features.NewBuilder(14)
	require.NoError(t, err)

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	_, err = SamplesFromHistory(builder, features.Profile{}, dailyHistory(start, 40, 20.0))
	require.Error(t, err)
}
