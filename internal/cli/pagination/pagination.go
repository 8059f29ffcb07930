// Package pagination provides flag parsing, validation, and slice
// windowing for CLI commands that return lists of items.
//
// Two modes are supported: offset-based (--limit/--offset) and page-based
// (--page/--page-size). The modes are mutually exclusive.
package pagination

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Sort order values accepted in a sort expression.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// Defaults applied when a sort expression is empty.
const (
	DefaultSortField = "date"
	DefaultSortOrder = SortOrderDesc
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors comparable with errors.Is().
var (
	// ErrInvalidSortFormat indicates a sort expression with too many parts.
	ErrInvalidSortFormat = constError("invalid sort format, expected field or field:order")
	// ErrEmptySortField indicates a sort expression with an empty field name.
	ErrEmptySortField = constError("sort field must not be empty")
	// ErrInvalidSortOrder indicates an order other than asc or desc.
	ErrInvalidSortOrder = constError("sort order must be asc or desc")
)

// Params holds the pagination values parsed from CLI flags.
type Params struct {
	Limit    int
	Offset   int
	Page     int
	PageSize int
}

// AddFlags registers the pagination flags on a command.
func AddFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", 0, "Maximum number of items to return (0 = all)")
	cmd.Flags().Int("offset", 0, "Number of items to skip")
	cmd.Flags().Int("page", 0, "Page number (1-based, mutually exclusive with --offset)")
	cmd.Flags().Int("page-size", 0, "Items per page (requires --page)")
}

// FromFlags reads the pagination flags registered by AddFlags.
func FromFlags(cmd *cobra.Command) Params {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	return Params{Limit: limit, Offset: offset, Page: page, PageSize: pageSize}
}

// Validate checks that the pagination parameters are consistent.
func (p Params) Validate() error {
	if p.Limit < 0 {
		return fmt.Errorf("limit cannot be negative, got %d", p.Limit)
	}
	if p.Offset < 0 {
		return fmt.Errorf("offset cannot be negative, got %d", p.Offset)
	}
	if p.Page < 0 {
		return fmt.Errorf("page cannot be negative, got %d", p.Page)
	}
	if p.PageSize < 0 {
		return fmt.Errorf("page-size cannot be negative, got %d", p.PageSize)
	}
	if p.Page > 0 && p.Offset > 0 {
		return fmt.Errorf("page and offset are mutually exclusive")
	}
	if p.Page > 0 && p.PageSize == 0 {
		return fmt.Errorf("page-size must be set when using page")
	}
	if p.PageSize > 0 && p.Page == 0 {
		return fmt.Errorf("page must be set when using page-size")
	}
	return nil
}

// IsPageBased reports whether page-based pagination is active.
func (p Params) IsPageBased() bool {
	return p.Page > 0
}

// IsEnabled reports whether any pagination parameter is set.
func (p Params) IsEnabled() bool {
	return p.Limit > 0 || p.Offset > 0 || p.Page > 0 || p.PageSize > 0
}

// OffsetLimit returns the effective offset and limit for either mode.
// A zero limit means no cap.
func (p Params) OffsetLimit() (int, int) {
	if p.IsPageBased() {
		return (p.Page - 1) * p.PageSize, p.PageSize
	}
	return p.Offset, p.Limit
}

// Apply windows items according to the parameters. Page-based requests
// beyond the last page clamp to the last page; offset-based requests
// beyond the end return an empty slice.
func Apply[T any](p Params, items []T) []T {
	if len(items) == 0 {
		return items
	}

	offset, limit := p.OffsetLimit()

	if p.IsPageBased() && offset >= len(items) {
		offset = ((len(items) - 1) / p.PageSize) * p.PageSize
	}
	if offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// sortPartsMax is the maximum number of parts in a sort expression.
const sortPartsMax = 2

// ParseSort parses a sort expression in the form "field" or "field:order".
// An empty expression yields the defaults.
func ParseSort(expr string) (string, string, error) {
	if expr == "" {
		return DefaultSortField, DefaultSortOrder, nil
	}

	parts := strings.Split(expr, ":")
	var field, order string
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, expr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}
