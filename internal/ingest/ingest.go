// Package ingest loads activity history in bulk: CSV imports and the
// deterministic demo generator. Rows are validated against the factor
// catalog before anything is written; malformed rows are collected per
// line instead of aborting the run, and writes happen in batches with the
// affected days' footprints recomputed afterwards.
package ingest

// constError is a comparable sentinel error type.
type constError string

func (e constError) Error() string { return string(e) }

const (
	// ErrEmptyInput indicates a CSV stream with no data rows.
	ErrEmptyInput = constError("no data rows in input")

	// ErrBadHeader indicates the CSV header does not match the expected
	// column layout.
	ErrBadHeader = constError("unexpected csv header")

	// ErrInvalidBatchSize indicates a batch size outside the allowed
	// range.
	ErrInvalidBatchSize = constError("invalid batch size")

	// ErrAllRowsFailed indicates every data row failed validation.
	ErrAllRowsFailed = constError("no importable rows")
)
