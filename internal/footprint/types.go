// Package footprint converts logged activities into CO2e quantities.
//
// Everything here is a pure function over an immutable factor catalog:
// no I/O, no shared state, safe for concurrent use. Unknown factors and
// malformed quantities are loud errors, never silent zeroes.
package footprint

import (
	"time"

	"github.com/ecotrack/ecotrack/internal/factors"
)

// ActivityRecord is one logged activity: what was done, how much, and when.
// Records are created by the input collaborator and consumed read-only here.
type ActivityRecord struct {
	Date     time.Time        `json:"date"`
	Category factors.Category `json:"category"`
	Subtype  string           `json:"subtype"`
	Quantity float64          `json:"quantity"`
	// Unit is the unit the quantity was logged in. The calculator does not
	// convert units; a unit that contradicts the factor's unit is rejected
	// so mismatches surface at the source instead of as wrong totals.
	Unit string `json:"unit"`
}

// Result is the emission summary for a single day in kg CO2e.
type Result struct {
	Date      time.Time `json:"date"`
	Transport float64   `json:"transport"`
	Energy    float64   `json:"energy"`
	Food      float64   `json:"food"`
	Waste     float64   `json:"waste"`
	Total     float64   `json:"total"`
}

// ForCategory returns the result's value for one category.
func (r Result) ForCategory(c factors.Category) float64 {
	switch c {
	case factors.CategoryTransport:
		return r.Transport
	case factors.CategoryEnergy:
		return r.Energy
	case factors.CategoryFood:
		return r.Food
	case factors.CategoryWaste:
		return r.Waste
	default:
		return 0
	}
}

// Share returns the category's fraction of the day's total, or 0 when the
// total is zero.
func (r Result) Share(c factors.Category) float64 {
	if r.Total <= 0 {
		return 0
	}
	return r.ForCategory(c) / r.Total
}

// Dominant returns the category with the largest contribution. Ties resolve
// to the earliest category in the canonical order.
func (r Result) Dominant() factors.Category {
	best := factors.CategoryTransport
	bestVal := r.Transport
	for _, c := range factors.Categories()[1:] {
		if v := r.ForCategory(c); v > bestVal {
			best, bestVal = c, v
		}
	}
	return best
}

// DayOf truncates t to its calendar day in UTC. All daily grouping in the
// engine uses this so records logged in different wall-clock zones land in
// one well-defined bucket.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}
