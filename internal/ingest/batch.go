package ingest

import (
	"context"
	"fmt"
)

// Batch write sizing. Imports chunk their inserts so one oversized file
// neither holds a transaction open for its whole length nor starves
// progress reporting.
const (
	DefaultBatchSize = 100
	MinBatchSize     = 1
	MaxBatchSize     = 1000
)

// BatchFunc persists one chunk of items.
type BatchFunc[T any] func(ctx context.Context, batch []T) error

// ProgressFunc observes chunk completion.
type ProgressFunc func(p Progress)

// Progress describes how far a batched run has come.
type Progress struct {
	Processed int
	Total     int
	Batch     int
	Batches   int
}

// Percent returns completion in [0, 100].
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Processed) / float64(p.Total) * 100
}

// ProcessBatches splits items into size-limited chunks and applies fn to
// each in order, invoking onProgress (when non-nil) after every chunk.
// The first failed chunk or context cancellation stops the run; chunks
// already applied stay applied.
func ProcessBatches[T any](ctx context.Context, items []T, size int, fn BatchFunc[T], onProgress ProgressFunc) error {
	if size < MinBatchSize || size > MaxBatchSize {
		return fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidBatchSize, size, MinBatchSize, MaxBatchSize)
	}

	total := len(items)
	batches := (total + size - 1) / size

	for i := 0; i < batches; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := i * size
		end := start + size
		if end > total {
			end = total
		}

		if err := fn(ctx, items[start:end]); err != nil {
			return fmt.Errorf("batch %d/%d: %w", i+1, batches, err)
		}

		if onProgress != nil {
			onProgress(Progress{
				Processed: end,
				Total:     total,
				Batch:     i + 1,
				Batches:   batches,
			})
		}
	}
	return nil
}
