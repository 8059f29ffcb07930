package forecast

import (
	"math"
	"math/rand/v2"

	"github.com/ecotrack/ecotrack/internal/features"
)

// Per-unit emission constants for the synthetic lifestyle model. They
// mirror the default factor table: gasoline car per mile, grid
// electricity per kWh, natural gas per therm, landfill waste per kg, and
// an approximate kg CO2 per meat-centric meal.
const (
	synthCarPerMile    = 0.411
	synthFlightPerMile = 0.225
	synthKWh           = 0.92
	synthTherm         = 5.3
	synthLandfillKg    = 0.57
	synthMeatMeal      = 2.5
	synthNoiseStd      = 500.0
	synthFloorAnnual   = 1000.0
	synthMilesPerTrip  = 1000.0
)

// Synthesize generates n training samples from a randomized lifestyle
// model: weekly driving, flights, household electricity and gas, meat
// consumption, and waste, each converted with the constants above and summed
// into an annual footprint with additive noise. The result is useful for
// demo installations and for exercising the training pipeline before real
// history accumulates.
//
// A fixed seed always produces the same samples.
func Synthesize(n int, seed int64) []TrainingSample {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x4cf5ad432745937f)) //nolint:gosec // G404: deterministic demo data, not cryptography

	samples := make([]TrainingSample, n)
	for i := range samples {
		samples[i] = synthesizeOne(rng)
	}
	return samples
}

func synthesizeOne(rng *rand.Rand) TrainingSample {
	household := 1 + rng.IntN(5)
	region := rng.IntN(3)

	carMilesWeekly := rng.ExpFloat64() * 100
	flightsYearly := poisson(rng, 2)

	kwhMonthly := math.Max(100, 900+rng.NormFloat64()*300)
	thermsMonthly := math.Max(0, 50+rng.NormFloat64()*20)
	renewable := 0.0
	if rng.Float64() < 0.3 {
		renewable = 1.0
	}

	meatMealsWeekly := rng.IntN(21)
	diet := dietFor(meatMealsWeekly)

	wasteKgWeekly := math.Max(1, 15+rng.NormFloat64()*5)
	recycleFraction := rng.Float64()

	transport := carMilesWeekly*52*synthCarPerMile +
		float64(flightsYearly)*synthMilesPerTrip*synthFlightPerMile
	energy := kwhMonthly*12*synthKWh*(1-renewable*0.8) +
		thermsMonthly*12*synthTherm
	food := float64(meatMealsWeekly) * 52 * synthMeatMeal
	waste := wasteKgWeekly * 52 * synthLandfillKg * (1 - recycleFraction)

	annual := transport + energy + food + waste
	dailyMean := annual / 365

	month := 1 + rng.IntN(12)
	angle := 2 * math.Pi * float64(month) / 12
	dailyStd := dailyMean * (0.1 + 0.3*rng.Float64())
	trendSlope := rng.NormFloat64() * 0.5
	weekendRatio := 0.7 + 0.6*rng.Float64()
	loggedRatio := 0.5 + 0.5*rng.Float64()

	// Schema order per features.Names: profile attributes, daily
	// aggregates, category shares, trend, weekend ratio, seasonal
	// encoding, logging density.
	vec := []float64{
		float64(household),
		float64(region),
		float64(diet),
		dailyMean,
		dailyStd,
		transport / annual,
		energy / annual,
		food / annual,
		waste / annual,
		trendSlope,
		weekendRatio,
		math.Sin(angle),
		math.Cos(angle),
		loggedRatio,
	}

	target := math.Max(synthFloorAnnual, annual+rng.NormFloat64()*synthNoiseStd)

	return TrainingSample{Features: vec, Target: target}
}

// dietFor assigns a coarse diet label from weekly meat meals, the way a
// self-reported survey would bucket it.
func dietFor(meatMealsWeekly int) features.DietClass {
	switch {
	case meatMealsWeekly == 0:
		return features.DietVegan
	case meatMealsWeekly <= 3:
		return features.DietVegetarian
	case meatMealsWeekly <= 10:
		return features.DietAverage
	default:
		return features.DietMeatHeavy
	}
}

// poisson draws from a Poisson distribution by Knuth's product method,
// fine for the small lambdas used here.
func poisson(rng *rand.Rand, lambda float64) int {
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
