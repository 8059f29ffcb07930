package footprint

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack/ecotrack/internal/factors"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompute_GasolineCarHundredMiles(t *testing.T) {
	cat := factors.Default()

	kg, err := Compute(cat, ActivityRecord{
		Date:     day(2025, time.March, 10),
		Category: factors.CategoryTransport,
		Subtype:  "gasoline_car",
		Quantity: 100,
		Unit:     "mile",
	})
	require.NoError(t, err)
	assert.InDelta(t, 41.1, kg, 1e-9)
}

func TestCompute_LinearInQuantity(t *testing.T) {
	cat := factors.Default()

	tests := []struct {
		name     string
		category factors.Category
		subtype  string
		quantity float64
	}{
		{"transport", factors.CategoryTransport, "bus", 12.5},
		{"energy", factors.CategoryEnergy, "electricity", 30},
		{"food", factors.CategoryFood, "chicken", 0.4},
		{"waste", factors.CategoryWaste, "landfill", 2.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ActivityRecord{Category: tt.category, Subtype: tt.subtype, Quantity: tt.quantity}
			single, err := Compute(cat, rec)
			require.NoError(t, err)

			rec.Quantity = 2 * tt.quantity
			double, err := Compute(cat, rec)
			require.NoError(t, err)

			assert.InDelta(t, 2*single, double, 1e-9)
		})
	}
}

func TestCompute_ZeroQuantityIsZero(t *testing.T) {
	cat := factors.Default()

	kg, err := Compute(cat, ActivityRecord{
		Category: factors.CategoryFood,
		Subtype:  "beef",
		Quantity: 0,
	})
	require.NoError(t, err)
	assert.Zero(t, kg)
}

func TestCompute_UnknownFactorNeverDefaultsToZero(t *testing.T) {
	cat := factors.Default()

	_, err := Compute(cat, ActivityRecord{
		Category: factors.CategoryTransport,
		Subtype:  "hoverboard",
		Quantity: 5,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, factors.ErrUnknownFactor))
	assert.Contains(t, err.Error(), "transport/hoverboard")
}

func TestCompute_RejectsInvalidQuantities(t *testing.T) {
	cat := factors.Default()

	for name, q := range map[string]float64{
		"negative": -1,
		"NaN":      math.NaN(),
		"+Inf":     math.Inf(1),
		"-Inf":     math.Inf(-1),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Compute(cat, ActivityRecord{
				Category: factors.CategoryEnergy,
				Subtype:  "electricity",
				Quantity: q,
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidQuantity))
		})
	}
}

func TestCompute_RejectsUnitMismatch(t *testing.T) {
	cat := factors.Default()

	_, err := Compute(cat, ActivityRecord{
		Category: factors.CategoryTransport,
		Subtype:  "gasoline_car",
		Quantity: 10,
		Unit:     "km",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnitMismatch))
	assert.Contains(t, err.Error(), `"km"`)
	assert.Contains(t, err.Error(), `"mile"`)
}

func TestAggregate_SingleActivity(t *testing.T) {
	cat := factors.Default()
	d := day(2025, time.March, 10)

	result, err := Aggregate(cat, d, []ActivityRecord{
		{Date: d, Category: factors.CategoryTransport, Subtype: "gasoline_car", Quantity: 100},
	})
	require.NoError(t, err)

	assert.InDelta(t, 41.1, result.Transport, 1e-9)
	assert.Zero(t, result.Energy)
	assert.Zero(t, result.Food)
	assert.Zero(t, result.Waste)
	assert.InDelta(t, 41.1, result.Total, 1e-9)
}

func TestAggregate_TotalEqualsSumOfCategories(t *testing.T) {
	cat := factors.Default()
	d := day(2025, time.June, 1)

	result, err := Aggregate(cat, d, []ActivityRecord{
		{Date: d, Category: factors.CategoryTransport, Subtype: "bus", Quantity: 10},
		{Date: d, Category: factors.CategoryTransport, Subtype: "train", Quantity: 20},
		{Date: d, Category: factors.CategoryEnergy, Subtype: "electricity", Quantity: 12},
		{Date: d, Category: factors.CategoryFood, Subtype: "cheese", Quantity: 0.2},
		{Date: d, Category: factors.CategoryFood, Subtype: "grains", Quantity: 0.5},
		{Date: d, Category: factors.CategoryWaste, Subtype: "landfill", Quantity: 1.5},
	})
	require.NoError(t, err)

	sum := result.Transport + result.Energy + result.Food + result.Waste
	assert.InDelta(t, sum, result.Total, 1e-9)
	assert.InDelta(t, 10*0.089+20*0.041, result.Transport, 1e-9)
	assert.InDelta(t, 12*0.92, result.Energy, 1e-9)
}

func TestAggregate_EmptyDayIsZeroResult(t *testing.T) {
	cat := factors.Default()
	d := day(2025, time.June, 1)

	result, err := Aggregate(cat, d, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Date: d}, result)
}

func TestAggregate_MixedDatesRejected(t *testing.T) {
	cat := factors.Default()
	d := day(2025, time.June, 1)

	_, err := Aggregate(cat, d, []ActivityRecord{
		{Date: d, Category: factors.CategoryWaste, Subtype: "recycling", Quantity: 1},
		{Date: d.AddDate(0, 0, 1), Category: factors.CategoryWaste, Subtype: "recycling", Quantity: 1},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMixedDates))
	assert.Contains(t, err.Error(), "2025-06-01")
	assert.Contains(t, err.Error(), "2025-06-02")
}

func TestAggregate_PropagatesComputeErrors(t *testing.T) {
	cat := factors.Default()
	d := day(2025, time.June, 1)

	_, err := Aggregate(cat, d, []ActivityRecord{
		{Date: d, Category: factors.CategoryEnergy, Subtype: "fusion", Quantity: 1},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, factors.ErrUnknownFactor))
}

func TestAggregate_NormalizesTimeOfDay(t *testing.T) {
	cat := factors.Default()
	morning := time.Date(2025, time.June, 1, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2025, time.June, 1, 22, 15, 0, 0, time.UTC)

	result, err := Aggregate(cat, morning, []ActivityRecord{
		{Date: morning, Category: factors.CategoryTransport, Subtype: "subway", Quantity: 5},
		{Date: evening, Category: factors.CategoryTransport, Subtype: "subway", Quantity: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.June, 1), result.Date)
	assert.InDelta(t, 10*0.035, result.Transport, 1e-9)
}

func TestAggregateDaily_AscendingOrder(t *testing.T) {
	cat := factors.Default()

	recs := []ActivityRecord{
		{Date: day(2025, time.June, 3), Category: factors.CategoryFood, Subtype: "eggs", Quantity: 0.1},
		{Date: day(2025, time.June, 1), Category: factors.CategoryFood, Subtype: "eggs", Quantity: 0.2},
		{Date: day(2025, time.June, 2), Category: factors.CategoryFood, Subtype: "eggs", Quantity: 0.3},
		{Date: day(2025, time.June, 1), Category: factors.CategoryWaste, Subtype: "landfill", Quantity: 1},
	}

	results, err := AggregateDaily(cat, recs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, day(2025, time.June, 1), results[0].Date)
	assert.Equal(t, day(2025, time.June, 2), results[1].Date)
	assert.Equal(t, day(2025, time.June, 3), results[2].Date)
	assert.InDelta(t, 0.2*4.8+1*0.57, results[0].Total, 1e-9)
}

func TestResult_SharesAndDominant(t *testing.T) {
	r := Result{Transport: 40, Energy: 10, Food: 30, Waste: 20, Total: 100}

	assert.InDelta(t, 0.4, r.Share(factors.CategoryTransport), 1e-9)
	assert.InDelta(t, 0.1, r.Share(factors.CategoryEnergy), 1e-9)
	assert.Equal(t, factors.CategoryTransport, r.Dominant())

	var zero Result
	assert.Zero(t, zero.Share(factors.CategoryFood))
}

func BenchmarkAggregate(b *testing.B) {
	cat := factors.Default()
	d := day(2025, time.June, 1)
	recs := make([]ActivityRecord, 0, 40)
	subtypes := []struct {
		c factors.Category
		s string
	}{
		{factors.CategoryTransport, "gasoline_car"},
		{factors.CategoryEnergy, "electricity"},
		{factors.CategoryFood, "chicken"},
		{factors.CategoryWaste, "landfill"},
	}
	for i := 0; i < 40; i++ {
		st := subtypes[i%len(subtypes)]
		recs = append(recs, ActivityRecord{Date: d, Category: st.c, Subtype: st.s, Quantity: float64(i)})
	}

	for b.Loop() {
		if _, err := Aggregate(cat, d, recs); err != nil {
			b.Fatal(err)
		}
	}
}
