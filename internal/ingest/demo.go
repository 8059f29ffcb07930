package ingest

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/footprint"
)

// DemoSeed is the default seed for demo data.
const DemoSeed = 42

// DemoDays generates days of plausible activity records ending at end:
// weekday commutes and weekend errands with the occasional flight,
// electricity and gas that climb in heating and cooling months, meat that
// skews toward weekends, and household waste split between landfill and
// recycling. Every subtype exists in the built-in factor table. A fixed
// seed reproduces the same records.
func DemoDays(days int, end time.Time, seed int64) []footprint.ActivityRecord {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)) //nolint:gosec // G404: deterministic demo data, not cryptography

	endDay := footprint.DayOf(end)
	start := endDay.AddDate(0, 0, -(days - 1))

	var records []footprint.ActivityRecord
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		records = append(records, demoDay(rng, day)...)
	}
	return records
}

func demoDay(rng *rand.Rand, day time.Time) []footprint.ActivityRecord {
	weekend := day.Weekday() == time.Saturday || day.Weekday() == time.Sunday

	add := func(recs []footprint.ActivityRecord, cat factors.Category, subtype, unit string, qty float64) []footprint.ActivityRecord {
		if qty <= 0 {
			return recs
		}
		return append(recs, footprint.ActivityRecord{
			Date:     day,
			Category: cat,
			Subtype:  subtype,
			Quantity: qty,
			Unit:     unit,
		})
	}

	var recs []footprint.ActivityRecord

	// Transport. Commute miles on workdays, shorter errands plus the
	// rare flight on weekends.
	if weekend {
		recs = add(recs, factors.CategoryTransport, "gasoline_car", factors.UnitMile, 15+rng.NormFloat64()*10)
		recs = add(recs, factors.CategoryTransport, "bus", factors.UnitMile, 2+rng.NormFloat64())
		recs = add(recs, factors.CategoryTransport, "plane_domestic", factors.UnitMile, float64(demoPoisson(rng, 0.1))*500)
	} else {
		recs = add(recs, factors.CategoryTransport, "gasoline_car", factors.UnitMile, 30+rng.NormFloat64()*8)
		recs = add(recs, factors.CategoryTransport, "bus", factors.UnitMile, 5+rng.NormFloat64()*2)
	}

	// Energy, seasonal: heating and cooling months run higher.
	if demoSeasonalMonth(day.Month()) {
		recs = add(recs, factors.CategoryEnergy, "electricity", factors.UnitKWh, 35+rng.NormFloat64()*8)
		recs = add(recs, factors.CategoryEnergy, "natural_gas", factors.UnitTherm, 3+rng.NormFloat64())
	} else {
		recs = add(recs, factors.CategoryEnergy, "electricity", factors.UnitKWh, 25+rng.NormFloat64()*5)
		recs = add(recs, factors.CategoryEnergy, "natural_gas", factors.UnitTherm, 1.5+rng.NormFloat64()*0.5)
	}

	// Food, in kg: meat meals skew toward weekends.
	beefMeals, chickenMeals := 0.2, 0.8
	if weekend {
		beefMeals, chickenMeals = 0.5, 1.0
	}
	recs = add(recs, factors.CategoryFood, "beef", factors.UnitKg, float64(demoPoisson(rng, beefMeals))*0.25)
	recs = add(recs, factors.CategoryFood, "chicken", factors.UnitKg, float64(demoPoisson(rng, chickenMeals))*0.2)
	recs = add(recs, factors.CategoryFood, "vegetables_local", factors.UnitKg, float64(demoPoisson(rng, 4))*0.1)
	recs = add(recs, factors.CategoryFood, "dairy_milk", factors.UnitKg, float64(demoPoisson(rng, 2))*0.1)

	// Waste with a variable recycling split.
	wasteKg := math.Max(0, 2+rng.NormFloat64()*0.5)
	recycleRate := 0.4 + 0.4*rng.Float64()
	recs = add(recs, factors.CategoryWaste, "landfill", factors.UnitKg, wasteKg*(1-recycleRate))
	recs = add(recs, factors.CategoryWaste, "recycling", factors.UnitKg, wasteKg*recycleRate)

	return recs
}

// demoSeasonalMonth reports whether the month is one with heavy heating
// or cooling load.
func demoSeasonalMonth(m time.Month) bool {
	switch m {
	case time.December, time.January, time.February, time.June, time.July, time.August:
		return true
	default:
		return false
	}
}

// demoPoisson draws from a Poisson distribution by Knuth's product
// method, fine for small lambdas.
func demoPoisson(rng *rand.Rand, lambda float64) int {
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p < limit {
			return k
		}
		k++
	}
}
