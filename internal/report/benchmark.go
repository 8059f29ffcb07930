package report

// DefaultOffsetPricePerTonne is the assumed carbon offset market rate in
// USD per metric ton.
const DefaultOffsetPricePerTonne = 20.0

// Benchmark is an annual per-capita emission reference point in kg CO2e.
type Benchmark struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	AnnualKg float64 `json:"annual_kg"`
}

// Benchmarks returns the annual reference points: global and regional
// per-capita averages plus the Paris Agreement trajectory targets.
func Benchmarks() []Benchmark {
	return []Benchmark{
		{Key: "global_average", Label: "Global average", AnnualKg: 4800},
		{Key: "us_average", Label: "US average", AnnualKg: 16000},
		{Key: "eu_average", Label: "EU average", AnnualKg: 8500},
		{Key: "canada_average", Label: "Canada average", AnnualKg: 15600},
		{Key: "australia_average", Label: "Australia average", AnnualKg: 17100},
		{Key: "paris_target_2030", Label: "Paris target 2030", AnnualKg: 2300},
		{Key: "paris_target_2050", Label: "Paris target 2050", AnnualKg: 1000},
	}
}

// Comparison relates an annual footprint to one benchmark. DeltaPct is
// positive when the footprint exceeds the benchmark.
type Comparison struct {
	Benchmark
	DeltaPct float64 `json:"delta_pct"`
}

// CompareAnnual relates an annual footprint to every benchmark.
func CompareAnnual(annualKg float64) []Comparison {
	bms := Benchmarks()
	out := make([]Comparison, 0, len(bms))
	for _, b := range bms {
		out = append(out, Comparison{
			Benchmark: b,
			DeltaPct:  PercentChange(b.AnnualKg, annualKg),
		})
	}
	return out
}

// DaysToGoal estimates the days of linear improvement needed to work off
// the accumulated total at the gap between the current and target daily
// rates. Zero when the current rate already meets the target.
func DaysToGoal(currentDailyKg, targetDailyKg, accumulatedKg float64) int {
	if currentDailyKg <= targetDailyKg {
		return 0
	}
	return int(accumulatedKg / (currentDailyKg - targetDailyKg))
}

// OffsetCost prices carbon offsets for the given emissions at a
// per-tonne rate.
func OffsetCost(kg, pricePerTonne float64) float64 {
	return kg / tonnesThresholdKg * pricePerTonne
}
