package factors

// Measurement units used by the built-in table.
const (
	UnitMile   = "mile"
	UnitKWh    = "kWh"
	UnitTherm  = "therm"
	UnitGallon = "gallon"
	UnitKg     = "kg"
)

// defaultFactors returns the built-in emission factor table, kg CO2e per
// unit, derived from IPCC lifecycle assessment figures.
//
// Electric vehicle and electricity figures assume the US average grid mix;
// deployments on cleaner or dirtier grids should supply their own table
// via the factors.path config key.
func defaultFactors() []Factor {
	return []Factor{
		// Transport, kg CO2e per mile.
		{CategoryTransport, "gasoline_car", UnitMile, 0.411},
		{CategoryTransport, "diesel_car", UnitMile, 0.364},
		{CategoryTransport, "electric_car", UnitMile, 0.1},
		{CategoryTransport, "hybrid_car", UnitMile, 0.25},
		{CategoryTransport, "bus", UnitMile, 0.089},
		{CategoryTransport, "train", UnitMile, 0.041},
		{CategoryTransport, "subway", UnitMile, 0.035},
		{CategoryTransport, "plane_domestic", UnitMile, 0.255},
		{CategoryTransport, "plane_international", UnitMile, 0.195},
		{CategoryTransport, "motorcycle", UnitMile, 0.197},
		{CategoryTransport, "bicycle", UnitMile, 0.0},
		{CategoryTransport, "walking", UnitMile, 0.0},
		{CategoryTransport, "electric_scooter", UnitMile, 0.05},

		// Energy. Electricity per kWh, natural gas per therm, heating oil
		// and propane per gallon, wood per kg.
		{CategoryEnergy, "electricity", UnitKWh, 0.92},
		{CategoryEnergy, "electricity_coal", UnitKWh, 2.23},
		{CategoryEnergy, "electricity_natural_gas", UnitKWh, 0.91},
		{CategoryEnergy, "electricity_renewable", UnitKWh, 0.02},
		{CategoryEnergy, "natural_gas", UnitTherm, 5.3},
		{CategoryEnergy, "heating_oil", UnitGallon, 10.15},
		{CategoryEnergy, "propane", UnitGallon, 5.68},
		{CategoryEnergy, "wood", UnitKg, 1.87},

		// Food, kg CO2e per kg consumed.
		{CategoryFood, "beef", UnitKg, 27.0},
		{CategoryFood, "lamb", UnitKg, 39.2},
		{CategoryFood, "pork", UnitKg, 12.1},
		{CategoryFood, "chicken", UnitKg, 6.9},
		{CategoryFood, "turkey", UnitKg, 10.9},
		{CategoryFood, "fish_farmed", UnitKg, 6.1},
		{CategoryFood, "fish_wild", UnitKg, 2.9},
		{CategoryFood, "dairy_milk", UnitKg, 3.2},
		{CategoryFood, "cheese", UnitKg, 13.5},
		{CategoryFood, "eggs", UnitKg, 4.8},
		{CategoryFood, "vegetables_local", UnitKg, 2.0},
		{CategoryFood, "vegetables_imported", UnitKg, 4.0},
		{CategoryFood, "fruits_local", UnitKg, 1.1},
		{CategoryFood, "fruits_imported", UnitKg, 2.5},
		{CategoryFood, "grains", UnitKg, 2.5},
		{CategoryFood, "nuts", UnitKg, 2.3},
		{CategoryFood, "processed_food", UnitKg, 5.8},
		{CategoryFood, "beverages", UnitKg, 1.4},

		// Waste, kg CO2e per kg disposed.
		{CategoryWaste, "landfill", UnitKg, 0.57},
		{CategoryWaste, "recycling", UnitKg, 0.0},
		{CategoryWaste, "composting", UnitKg, 0.0},
		{CategoryWaste, "incineration", UnitKg, 0.7},
		{CategoryWaste, "electronic_waste", UnitKg, 2.1},
	}
}
