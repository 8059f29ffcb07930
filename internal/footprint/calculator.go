package footprint

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ecotrack/ecotrack/internal/factors"
)

// Compute converts one activity into kg CO2e:
//
//	emission = quantity × factor(category, subtype)
//
// It returns factors.ErrUnknownFactor when the pair has no catalog entry,
// ErrInvalidQuantity for negative or non-finite quantities, and
// ErrUnitMismatch when the record declares a unit different from the
// factor's unit. A record with an empty unit is accepted and assumed to be
// in the factor's unit.
func Compute(cat *factors.Catalog, rec ActivityRecord) (float64, error) {
	if rec.Quantity < 0 || math.IsNaN(rec.Quantity) || math.IsInf(rec.Quantity, 0) {
		return 0, fmt.Errorf("%w: %v for %s/%s", ErrInvalidQuantity, rec.Quantity, rec.Category, rec.Subtype)
	}

	f, err := cat.Lookup(rec.Category, rec.Subtype)
	if err != nil {
		return 0, err
	}

	if rec.Unit != "" && rec.Unit != f.Unit {
		return 0, fmt.Errorf("%w: logged %q, factor %s/%s is per %q",
			ErrUnitMismatch, rec.Unit, rec.Category, rec.Subtype, f.Unit)
	}

	return rec.Quantity * f.KgCO2PerUnit, nil
}

// Aggregate sums activities for one day into per-category totals and a
// grand total. Every record must fall on day (UTC calendar day); records
// from other days return ErrMixedDates naming both dates. An empty record
// list yields an all-zero Result for the day, which is valid: a day with
// nothing logged has nothing to add.
//
// The returned Total always equals the sum of the four category fields.
func Aggregate(cat *factors.Catalog, day time.Time, recs []ActivityRecord) (Result, error) {
	day = DayOf(day)
	result := Result{Date: day}

	for _, rec := range recs {
		if !SameDay(rec.Date, day) {
			return Result{}, fmt.Errorf("%w: expected %s, found %s",
				ErrMixedDates, day.Format("2006-01-02"), DayOf(rec.Date).Format("2006-01-02"))
		}

		kg, err := Compute(cat, rec)
		if err != nil {
			return Result{}, fmt.Errorf("aggregating %s/%s on %s: %w",
				rec.Category, rec.Subtype, day.Format("2006-01-02"), err)
		}

		switch rec.Category {
		case factors.CategoryTransport:
			result.Transport += kg
		case factors.CategoryEnergy:
			result.Energy += kg
		case factors.CategoryFood:
			result.Food += kg
		case factors.CategoryWaste:
			result.Waste += kg
		}
	}

	result.Total = result.Transport + result.Energy + result.Food + result.Waste
	return result, nil
}

// AggregateDaily groups a span of records by UTC calendar day and returns
// one Result per day in ascending date order. Days absent from the input
// produce no Result; gap handling is the feature builder's concern.
func AggregateDaily(cat *factors.Catalog, recs []ActivityRecord) ([]Result, error) {
	byDay := make(map[time.Time][]ActivityRecord)
	for _, rec := range recs {
		day := DayOf(rec.Date)
		byDay[day] = append(byDay[day], rec)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	results := make([]Result, 0, len(days))
	for _, day := range days {
		r, err := Aggregate(cat, day, byDay[day])
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
