package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/footprint"
	"github.com/ecotrack/ecotrack/internal/logging"
)

// dateLayout is the accepted activity date format.
const dateLayout = "2006-01-02"

// csvColumns is the required header, in order.
//
//nolint:gochecknoglobals // fixed file layout
var csvColumns = []string{"date", "category", "subtype", "quantity", "unit"}

// RowError ties a failure to the 1-based line it came from.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// ParseResult holds the usable rows of a CSV stream alongside the rows
// that failed, so a partially bad file still imports. Lines aligns with
// Records, carrying each record's 1-based source line.
type ParseResult struct {
	Records   []footprint.ActivityRecord
	Lines     []int
	RowErrors []RowError
}

// ParseCSV reads activity rows from r. The stream must start with the
// header "date,category,subtype,quantity,unit"; each data row carries an
// ISO date, a known category, a non-empty subtype, a non-negative finite
// quantity, and a non-empty unit. Malformed rows land in RowErrors with
// their line numbers; only a bad header, an unreadable stream, or a
// stream with no data rows fail the whole parse.
func ParseCSV(ctx context.Context, r io.Reader) (*ParseResult, error) {
	log := logging.FromContext(ctx)

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	result := &ParseResult{}
	line := 1
	for {
		line++
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Structural errors (bare quotes, wrong field count) are
			// row-scoped for csv.Reader; keep collecting.
			result.RowErrors = append(result.RowErrors, RowError{Line: line, Err: err})
			continue
		}

		rec, err := parseRow(row)
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Line: line, Err: err})
			continue
		}
		result.Records = append(result.Records, rec)
		result.Lines = append(result.Lines, line)
	}

	if len(result.Records) == 0 && len(result.RowErrors) == 0 {
		return nil, ErrEmptyInput
	}

	log.Debug().
		Str("component", "ingest").
		Str("operation", "parse_csv").
		Int("rows", len(result.Records)).
		Int("row_errors", len(result.RowErrors)).
		Msg("parsed activity csv")

	return result, nil
}

func checkHeader(header []string) error {
	if len(header) != len(csvColumns) {
		return fmt.Errorf("%w: expected %d columns, got %d", ErrBadHeader, len(csvColumns), len(header))
	}
	for i, want := range csvColumns {
		got := strings.ToLower(strings.TrimSpace(header[i]))
		if got != want {
			return fmt.Errorf("%w: column %d is %q, expected %q", ErrBadHeader, i+1, header[i], want)
		}
	}
	return nil
}

func parseRow(row []string) (footprint.ActivityRecord, error) {
	if len(row) != len(csvColumns) {
		return footprint.ActivityRecord{}, fmt.Errorf("expected %d fields, got %d", len(csvColumns), len(row))
	}

	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(row[0]), time.UTC)
	if err != nil {
		return footprint.ActivityRecord{}, fmt.Errorf("bad date %q: expected YYYY-MM-DD", row[0])
	}

	category, err := factors.ParseCategory(strings.TrimSpace(row[1]))
	if err != nil {
		return footprint.ActivityRecord{}, err
	}

	subtype := strings.TrimSpace(row[2])
	if subtype == "" {
		return footprint.ActivityRecord{}, fmt.Errorf("empty subtype")
	}

	quantity, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return footprint.ActivityRecord{}, fmt.Errorf("bad quantity %q", row[3])
	}
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity < 0 {
		return footprint.ActivityRecord{}, fmt.Errorf("quantity %v must be finite and non-negative", quantity)
	}

	unit := strings.TrimSpace(row[4])
	if unit == "" {
		return footprint.ActivityRecord{}, fmt.Errorf("empty unit")
	}

	return footprint.ActivityRecord{
		Date:     date,
		Category: category,
		Subtype:  subtype,
		Quantity: quantity,
		Unit:     unit,
	}, nil
}
