package ingest

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/footprint"
	"github.com/ecotrack/ecotrack/internal/logging"
	"github.com/ecotrack/ecotrack/internal/storage"
)

// Importer runs bulk activity loads through the factor catalog and
// persists them in batches.
type Importer struct {
	store     *storage.Store
	catalog   *factors.Catalog
	batchSize int
}

// Summary describes a completed import: how many rows landed, how many
// were rejected and why, which days had their footprints recomputed, and
// the emissions added.
type Summary struct {
	Imported  int                `json:"imported"`
	Skipped   int                `json:"skipped"`
	Days      []time.Time        `json:"days"`
	TotalKg   float64            `json:"total_kg"`
	RowErrors []RowError         `json:"-"`
	Results   []footprint.Result `json:"results,omitempty"`
}

// NewImporter builds an Importer writing through store with factors from
// catalog. batchSize 0 selects DefaultBatchSize.
func NewImporter(store *storage.Store, catalog *factors.Catalog, batchSize int) (*Importer, error) {
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidBatchSize, batchSize, MinBatchSize, MaxBatchSize)
	}
	return &Importer{store: store, catalog: catalog, batchSize: batchSize}, nil
}

// ImportCSV parses activity rows from r, computes emissions for the
// valid ones, writes them in batches, and recomputes the daily footprint
// of every affected day. Parse and conversion failures are collected in
// the summary rather than aborting; the import fails outright only when
// the stream itself is unusable or no row survives validation. Batches
// commit independently, so a failure partway leaves earlier batches stored.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader, onProgress ProgressFunc) (*Summary, error) {
	parsed, err := ParseCSV(ctx, r)
	if err != nil {
		return nil, err
	}
	return im.run(ctx, "import_csv", parsed.Records, parsed.Lines, parsed.RowErrors, onProgress)
}

// ImportRecords converts and persists already-parsed records, collecting
// per-record failures by 1-based position. Used by the demo seeder and
// anything else that builds records in memory.
func (im *Importer) ImportRecords(ctx context.Context, records []footprint.ActivityRecord, onProgress ProgressFunc) (*Summary, error) {
	return im.run(ctx, "import_records", records, nil, nil, onProgress)
}

// run computes emissions, batch-writes the survivors, and refreshes affected
// days. lines aligns source line numbers with records; nil falls back to
// 1-based positions.
func (im *Importer) run(
	ctx context.Context,
	operation string,
	records []footprint.ActivityRecord,
	lines []int,
	preErrors []RowError,
	onProgress ProgressFunc,
) (*Summary, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	summary := &Summary{RowErrors: preErrors}

	entries := make([]storage.Entry, 0, len(records))
	for i, rec := range records {
		kg, err := footprint.Compute(im.catalog, rec)
		if err != nil {
			line := i + 1
			if lines != nil {
				line = lines[i]
			}
			summary.RowErrors = append(summary.RowErrors, RowError{Line: line, Err: err})
			continue
		}
		entries = append(entries, storage.Entry{Record: rec, EmissionsKg: kg})
		summary.TotalKg += kg
	}
	summary.Skipped = len(summary.RowErrors)

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %d rows rejected", ErrAllRowsFailed, summary.Skipped)
	}

	err := ProcessBatches(ctx, entries, im.batchSize, func(ctx context.Context, batch []storage.Entry) error {
		return im.store.SaveActivityBatch(ctx, batch)
	}, onProgress)
	if err != nil {
		return nil, fmt.Errorf("writing activities: %w", err)
	}
	summary.Imported = len(entries)

	days := distinctDays(entries)
	results, err := RecomputeDays(ctx, im.store, days)
	if err != nil {
		return nil, err
	}
	summary.Days = days
	summary.Results = results

	log.Info().
		Str("component", "ingest").
		Str("operation", operation).
		Int("imported", summary.Imported).
		Int("skipped", summary.Skipped).
		Int("days", len(days)).
		Float64("total_kg", summary.TotalKg).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("bulk import complete")

	return summary, nil
}

// RecomputeDay rebuilds one day's footprint from every activity stored
// for it and upserts the result. Emissions come from the stored rows, so
// rows computed under an older factor table keep their original values.
func RecomputeDay(ctx context.Context, store *storage.Store, day time.Time) (footprint.Result, error) {
	acts, err := store.ActivitiesOn(ctx, day)
	if err != nil {
		return footprint.Result{}, err
	}

	r := footprint.Result{Date: footprint.DayOf(day)}
	for _, a := range acts {
		switch a.Record.Category {
		case factors.CategoryTransport:
			r.Transport += a.EmissionsKg
		case factors.CategoryEnergy:
			r.Energy += a.EmissionsKg
		case factors.CategoryFood:
			r.Food += a.EmissionsKg
		case factors.CategoryWaste:
			r.Waste += a.EmissionsKg
		}
		r.Total += a.EmissionsKg
	}

	if err := store.UpsertFootprint(ctx, r); err != nil {
		return footprint.Result{}, err
	}
	return r, nil
}

// RecomputeDays rebuilds footprints for each day, returning results in
// ascending date order.
func RecomputeDays(ctx context.Context, store *storage.Store, days []time.Time) ([]footprint.Result, error) {
	out := make([]footprint.Result, 0, len(days))
	for _, day := range days {
		r, err := RecomputeDay(ctx, store, day)
		if err != nil {
			return nil, fmt.Errorf("recomputing footprint for %s: %w", day.Format(dateLayout), err)
		}
		out = append(out, r)
	}
	return out, nil
}

// distinctDays returns the unique UTC days covered by entries, ascending.
func distinctDays(entries []storage.Entry) []time.Time {
	seen := make(map[time.Time]bool, len(entries))
	var days []time.Time
	for _, e := range entries {
		day := footprint.DayOf(e.Record.Date)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
