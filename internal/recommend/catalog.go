package recommend

import (
	"github.com/ecotrack/ecotrack/internal/factors"
)

// Intervention is one catalog entry: a behavior change with an estimated
// annual emission reduction.
type Intervention struct {
	Title    string           `json:"title"`
	Category factors.Category `json:"category"`
	// EstimatedAnnualKg is the modeled annual reduction in kg CO2e for a
	// typical household that adopts the intervention. It is an average
	// drawn from published figures, an estimate rather than a guarantee.
	EstimatedAnnualKg float64    `json:"estimated_annual_kg"`
	Difficulty        Difficulty `json:"difficulty"`
	Rationale         string     `json:"rationale"`
	// Starter marks the one low-difficulty entry per category served when
	// no usable footprint exists yet.
	Starter bool `json:"starter,omitempty"`
}

// Recommendation is a ranked intervention. Score reflects how the engine
// weighted the entry for one particular user; the estimate fields are
// copied unchanged from the catalog.
type Recommendation struct {
	Title             string           `json:"title"`
	Category          factors.Category `json:"category"`
	EstimatedAnnualKg float64          `json:"estimated_annual_kg"`
	Difficulty        Difficulty       `json:"difficulty"`
	Rationale         string           `json:"rationale"`
	Score             float64          `json:"score"`
}

// recommendation converts the catalog entry into an output row carrying
// the given score.
func (iv Intervention) recommendation(score float64) Recommendation {
	return Recommendation{
		Title:             iv.Title,
		Category:          iv.Category,
		EstimatedAnnualKg: iv.EstimatedAnnualKg,
		Difficulty:        iv.Difficulty,
		Rationale:         iv.Rationale,
		Score:             score,
	}
}

// interventions returns the built-in catalog. The slice order is the
// ranking tie-break of last resort, so entries are grouped by category in
// canonical order and sorted by descending impact within each category.
//
// Impact figures are annual averages for a typical US household, aligned
// with the built-in emission factor table where the two overlap.
func interventions() []Intervention {
	return []Intervention{
		// Transport.
		{
			Title:             "Switch to an electric or hybrid vehicle",
			Category:          factors.CategoryTransport,
			EstimatedAnnualKg: 2000,
			Difficulty:        DifficultyHigh,
			Rationale:         "Charging from the grid emits roughly a quarter of the CO2e per mile of burning gasoline.",
		},
		{
			Title:             "Take public transport for your commute",
			Category:          factors.CategoryTransport,
			EstimatedAnnualKg: 1200,
			Difficulty:        DifficultyMedium,
			Rationale:         "Bus and rail miles emit a fraction of the CO2e of driving alone.",
		},
		{
			Title:             "Work from home two days a week",
			Category:          factors.CategoryTransport,
			EstimatedAnnualKg: 800,
			Difficulty:        DifficultyMedium,
			Rationale:         "Every avoided commute day removes its round trip outright.",
		},
		{
			Title:             "Carpool regularly",
			Category:          factors.CategoryTransport,
			EstimatedAnnualKg: 600,
			Difficulty:        DifficultyLow,
			Rationale:         "A shared ride splits its emissions across every passenger.",
		},
		{
			Title:             "Bike or walk trips under two miles",
			Category:          factors.CategoryTransport,
			EstimatedAnnualKg: 400,
			Difficulty:        DifficultyLow,
			Rationale:         "Short cold-engine trips are the dirtiest car miles and the easiest to replace.",
			Starter:           true,
		},
		{
			Title:             "Practice eco-driving",
			Category:          factors.CategoryTransport,
			EstimatedAnnualKg: 300,
			Difficulty:        DifficultyLow,
			Rationale:         "Smooth acceleration and steady speeds cut fuel use by roughly a tenth.",
		},

		// Energy.
		{
			Title:             "Switch to a renewable electricity plan",
			Category:          factors.CategoryEnergy,
			EstimatedAnnualKg: 1500,
			Difficulty:        DifficultyHigh,
			Rationale:         "Renewable supply emits around 0.02 kg CO2e per kWh against a grid average of 0.92.",
		},
		{
			Title:             "Improve home insulation",
			Category:          factors.CategoryEnergy,
			EstimatedAnnualKg: 800,
			Difficulty:        DifficultyHigh,
			Rationale:         "Less heat escaping means fewer therms burned for the same comfort.",
		},
		{
			Title:             "Replace aging appliances with efficient models",
			Category:          factors.CategoryEnergy,
			EstimatedAnnualKg: 500,
			Difficulty:        DifficultyMedium,
			Rationale:         "Modern refrigerators and dryers draw far less electricity than decade-old units.",
		},
		{
			Title:             "Install a programmable thermostat",
			Category:          factors.CategoryEnergy,
			EstimatedAnnualKg: 300,
			Difficulty:        DifficultyMedium,
			Rationale:         "Setting back a few degrees overnight trims heating fuel without a comfort cost.",
		},
		{
			Title:             "Swap remaining bulbs for LEDs",
			Category:          factors.CategoryEnergy,
			EstimatedAnnualKg: 200,
			Difficulty:        DifficultyLow,
			Rationale:         "LEDs draw about a sixth of the power of incandescents for the same light.",
			Starter:           true,
		},
		{
			Title:             "Unplug idle electronics",
			Category:          factors.CategoryEnergy,
			EstimatedAnnualKg: 150,
			Difficulty:        DifficultyLow,
			Rationale:         "Standby loads run day and night and add up over a year.",
		},

		// Food.
		{
			Title:             "Halve your red meat consumption",
			Category:          factors.CategoryFood,
			EstimatedAnnualKg: 500,
			Difficulty:        DifficultyMedium,
			Rationale:         "Beef emits 27 kg CO2e per kg, an order of magnitude above grains and vegetables.",
		},
		{
			Title:             "Go plant-based two days a week",
			Category:          factors.CategoryFood,
			EstimatedAnnualKg: 400,
			Difficulty:        DifficultyMedium,
			Rationale:         "Two meat-free days trim roughly a fifth of a typical diet's footprint.",
		},
		{
			Title:             "Plan meals to cut food waste",
			Category:          factors.CategoryFood,
			EstimatedAnnualKg: 300,
			Difficulty:        DifficultyLow,
			Rationale:         "Wasted food carries all the emissions of producing it plus landfill methane.",
			Starter:           true,
		},
		{
			Title:             "Buy local and seasonal produce",
			Category:          factors.CategoryFood,
			EstimatedAnnualKg: 200,
			Difficulty:        DifficultyLow,
			Rationale:         "Local produce skips long-haul freight and cold storage.",
		},
		{
			Title:             "Prefer organic staples",
			Category:          factors.CategoryFood,
			EstimatedAnnualKg: 100,
			Difficulty:        DifficultyLow,
			Rationale:         "Lower synthetic fertilizer input means lower nitrous oxide emissions per kg.",
		},

		// Waste.
		{
			Title:             "Recycle everything your program accepts",
			Category:          factors.CategoryWaste,
			EstimatedAnnualKg: 200,
			Difficulty:        DifficultyLow,
			Rationale:         "Recycled material displaces virgin production and skips the landfill.",
			Starter:           true,
		},
		{
			Title:             "Compost food scraps",
			Category:          factors.CategoryWaste,
			EstimatedAnnualKg: 150,
			Difficulty:        DifficultyLow,
			Rationale:         "Composting avoids the methane organics release in a landfill.",
		},
		{
			Title:             "Repair before replacing",
			Category:          factors.CategoryWaste,
			EstimatedAnnualKg: 120,
			Difficulty:        DifficultyLow,
			Rationale:         "A repair avoids the manufacturing footprint of a new product.",
		},
		{
			Title:             "Refuse single-use items",
			Category:          factors.CategoryWaste,
			EstimatedAnnualKg: 100,
			Difficulty:        DifficultyLow,
			Rationale:         "Disposables spend almost their whole life as waste.",
		},
		{
			Title:             "Buy second-hand first",
			Category:          factors.CategoryWaste,
			EstimatedAnnualKg: 80,
			Difficulty:        DifficultyLow,
			Rationale:         "A used purchase carries no new manufacturing emissions.",
		},
	}
}

// Interventions returns the full built-in catalog in stable order.
func Interventions() []Intervention {
	return interventions()
}

// StarterSet returns the recommendations served when no usable footprint
// exists yet: one low-difficulty intervention per category, in canonical
// category order, scored by bare impact. Never empty.
func StarterSet() []Recommendation {
	var out []Recommendation
	for _, iv := range interventions() {
		if !iv.Starter {
			continue
		}
		out = append(out, iv.recommendation(iv.EstimatedAnnualKg))
	}
	return out
}
