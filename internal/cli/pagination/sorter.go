package pagination

import (
	"fmt"
	"sort"

	"github.com/ecotrack/ecotrack/internal/storage"
)

// Sortable activity fields.
const (
	FieldDate      = "date"
	FieldCategory  = "category"
	FieldEmissions = "emissions"
	FieldQuantity  = "quantity"
)

// ErrUnknownSortField indicates a sort field no activity column matches.
var ErrUnknownSortField = constError("unknown sort field")

// ActivitySorter orders stored activities by a named field. Ties keep the
// storage order, which is insertion order.
type ActivitySorter struct {
	field string
	order string
}

// NewActivitySorter validates the field and order and returns a sorter.
func NewActivitySorter(field, order string) (*ActivitySorter, error) {
	switch field {
	case FieldDate, FieldCategory, FieldEmissions, FieldQuantity:
	default:
		return nil, fmt.Errorf("%w: %q (expected date, category, emissions, or quantity)",
			ErrUnknownSortField, field)
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return &ActivitySorter{field: field, order: order}, nil
}

// Sort orders items in place.
func (s *ActivitySorter) Sort(items []storage.Activity) {
	less := s.lessFunc(items)
	if s.order == SortOrderDesc {
		asc := less
		less = func(i, j int) bool { return asc(j, i) }
	}
	sort.SliceStable(items, less)
}

func (s *ActivitySorter) lessFunc(items []storage.Activity) func(i, j int) bool {
	switch s.field {
	case FieldCategory:
		return func(i, j int) bool {
			return items[i].Record.Category < items[j].Record.Category
		}
	case FieldEmissions:
		return func(i, j int) bool {
			return items[i].EmissionsKg < items[j].EmissionsKg
		}
	case FieldQuantity:
		return func(i, j int) bool {
			return items[i].Record.Quantity < items[j].Record.Quantity
		}
	default:
		return func(i, j int) bool {
			return items[i].Record.Date.Before(items[j].Record.Date)
		}
	}
}
