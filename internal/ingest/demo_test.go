package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/footprint"
)

func TestDemoDays_Deterministic(t *testing.T) {
	t.Parallel()

	end := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	a := DemoDays(30, end, DemoSeed)
	b := DemoDays(30, end, DemoSeed)
	assert.Equal(t, a, b, "same seed generates the same records")

	c := DemoDays(30, end, DemoSeed+1)
	assert.NotEqual(t, a, c)
}

func TestDemoDays_CoversEveryDay(t *testing.T) {
	t.Parallel()

	end := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	records := DemoDays(14, end, DemoSeed)
	require.NotEmpty(t, records)

	days := make(map[time.Time]bool)
	for _, r := range records {
		days[footprint.DayOf(r.Date)] = true
	}
	assert.Len(t, days, 14)

	start := end.AddDate(0, 0, -13)
	for _, r := range records {
		assert.False(t, r.Date.Before(start), "record before range: %s", r.Date)
		assert.False(t, r.Date.After(end), "record after range: %s", r.Date)
	}
}

func TestDemoDays_AllRecordsPriceable(t *testing.T) {
	t.Parallel()

	catalog := factors.Default()
	end := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	for _, rec := range DemoDays(60, end, 7) {
		require.Positive(t, rec.Quantity, "%s/%s", rec.Category, rec.Subtype)
		_, err := footprint.Compute(catalog, rec)
		require.NoError(t, err, "%s/%s in %s", rec.Category, rec.Subtype, rec.Unit)
	}
}

func TestDemoDays_SeasonalEnergy(t *testing.T) {
	t.Parallel()

	// January sits in the heavy-load months, April does not. Compare mean
	// electricity across many days so the draw noise averages out.
	meanElectricity := func(end time.Time) float64 {
		var sum float64
		var n int
		for _, rec := range DemoDays(90, end, DemoSeed) {
			if rec.Category == factors.CategoryEnergy && rec.Subtype == "electricity" {
				sum += rec.Quantity
				n++
			}
		}
		require.Positive(t, n)
		return sum / float64(n)
	}

	winter := meanElectricity(time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC))
	spring := meanElectricity(time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC))
	assert.Greater(t, winter, spring, "heating months draw more electricity")
}

func TestDemoDays_WeekdayCommutePattern(t *testing.T) {
	t.Parallel()

	end := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	var weekdaySum, weekendSum float64
	var weekdayN, weekendN int
	for _, rec := range DemoDays(90, end, DemoSeed) {
		if rec.Category != factors.CategoryTransport || rec.Subtype != "gasoline_car" {
			continue
		}
		switch rec.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekendSum += rec.Quantity
			weekendN++
		default:
			weekdaySum += rec.Quantity
			weekdayN++
		}
	}
	require.Positive(t, weekdayN)
	require.Positive(t, weekendN)
	assert.Greater(t, weekdaySum/float64(weekdayN), weekendSum/float64(weekendN),
		"commute days drive farther than weekends")
}
