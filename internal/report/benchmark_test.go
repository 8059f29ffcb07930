package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchmarks(t *testing.T) {
	t.Parallel()

	bms := Benchmarks()
	require.Len(t, bms, 7)

	byKey := make(map[string]float64, len(bms))
	for _, b := range bms {
		byKey[b.Key] = b.AnnualKg
	}
	assert.InDelta(t, 4800.0, byKey["global_average"], 1e-9)
	assert.InDelta(t, 16000.0, byKey["us_average"], 1e-9)
	assert.InDelta(t, 8500.0, byKey["eu_average"], 1e-9)
	assert.InDelta(t, 2300.0, byKey["paris_target_2030"], 1e-9)
	assert.InDelta(t, 1000.0, byKey["paris_target_2050"], 1e-9)
}

func TestCompareAnnual(t *testing.T) {
	t.Parallel()

	comps := CompareAnnual(4800)
	require.Len(t, comps, 7)

	byKey := make(map[string]Comparison, len(comps))
	for _, c := range comps {
		byKey[c.Key] = c
	}

	assert.InDelta(t, 0.0, byKey["global_average"].DeltaPct, 1e-9)
	assert.InDelta(t, -70.0, byKey["us_average"].DeltaPct, 1e-9)
	// 4800 vs the 2030 Paris target of 2300: 108.7% over.
	assert.InDelta(t, 108.7, byKey["paris_target_2030"].DeltaPct, 0.05)
}

func TestDaysToGoal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, DaysToGoal(5, 10, 100), "already under target")
	assert.Equal(t, 0, DaysToGoal(10, 10, 100), "exactly at target")
	assert.Equal(t, 20, DaysToGoal(10, 5, 100))
	assert.Equal(t, 50, DaysToGoal(7, 5, 100))
}

func TestOffsetCost(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 20.0, OffsetCost(1000, DefaultOffsetPricePerTonne), 1e-9)
	assert.InDelta(t, 3.0, OffsetCost(150, 20), 1e-9)
	assert.InDelta(t, 0.0, OffsetCost(0, 20), 1e-9)
}
