// Package storage persists activities, daily footprints, and the user
// profile in a local sqlite database.
//
// It is the persistence collaborator the engine packages consume: history
// reads come back in ascending date order, daily footprints upsert per
// calendar day, and the store never computes emissions itself. The driver
// is modernc.org/sqlite, so the binary stays pure Go.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/features"
	"github.com/ecotrack/ecotrack/internal/footprint"
)

// dayFormat is how calendar days are stored; lexicographic order equals
// date order, which the range queries rely on.
const dayFormat = "2006-01-02"

const schema = `
CREATE TABLE IF NOT EXISTS activities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,
    category TEXT NOT NULL,
    subtype TEXT NOT NULL,
    quantity REAL NOT NULL,
    unit TEXT NOT NULL,
    emissions_kg REAL NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(date);

CREATE TABLE IF NOT EXISTS daily_footprints (
    date TEXT PRIMARY KEY,
    transport_kg REAL NOT NULL DEFAULT 0,
    energy_kg REAL NOT NULL DEFAULT 0,
    food_kg REAL NOT NULL DEFAULT 0,
    waste_kg REAL NOT NULL DEFAULT 0,
    total_kg REAL NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS profile (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    household_size INTEGER NOT NULL,
    region TEXT NOT NULL,
    diet TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// Entry pairs a logged activity with its computed emissions. The caller
// runs the calculator; the store only keeps the outcome.
type Entry struct {
	Record      footprint.ActivityRecord
	EmissionsKg float64
}

// Activity is a stored activity row.
type Activity struct {
	ID          int64
	Record      footprint.ActivityRecord
	EmissionsKg float64
	CreatedAt   time.Time
}

// Store is a sqlite-backed persistence layer. Safe for concurrent use;
// sqlite serializes writers internally.
type Store struct {
	db *sqlx.DB
}

// Open creates or opens the database at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

type activityRow struct {
	ID          int64   `db:"id"`
	Date        string  `db:"date"`
	Category    string  `db:"category"`
	Subtype     string  `db:"subtype"`
	Quantity    float64 `db:"quantity"`
	Unit        string  `db:"unit"`
	EmissionsKg float64 `db:"emissions_kg"`
	CreatedAt   string  `db:"created_at"`
}

func (r activityRow) activity() (Activity, error) {
	day, err := time.ParseInLocation(dayFormat, r.Date, time.UTC)
	if err != nil {
		return Activity{}, fmt.Errorf("parsing activity date %q: %w", r.Date, err)
	}
	category, err := factors.ParseCategory(r.Category)
	if err != nil {
		return Activity{}, fmt.Errorf("activity %d: %w", r.ID, err)
	}
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return Activity{}, fmt.Errorf("parsing activity created_at %q: %w", r.CreatedAt, err)
	}

	return Activity{
		ID: r.ID,
		Record: footprint.ActivityRecord{
			Date:     day,
			Category: category,
			Subtype:  r.Subtype,
			Quantity: r.Quantity,
			Unit:     r.Unit,
		},
		EmissionsKg: r.EmissionsKg,
		CreatedAt:   createdAt,
	}, nil
}

const insertActivity = `
INSERT INTO activities (date, category, subtype, quantity, unit, emissions_kg, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// SaveActivityBatch stores all entries in one transaction, bucketing each
// record's date to its UTC calendar day. Either every entry lands or none
// do, so a failed import never leaves half a file behind.
func (s *Store) SaveActivityBatch(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting batch transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	now := time.Now().UTC().Format(time.RFC3339)
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx, insertActivity,
			footprint.DayOf(e.Record.Date).Format(dayFormat),
			e.Record.Category.String(),
			e.Record.Subtype,
			e.Record.Quantity,
			e.Record.Unit,
			e.EmissionsKg,
			now,
		); err != nil {
			return fmt.Errorf("inserting batch entry %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// ActivitiesBetween returns activities with dates in [from, to], in
// ascending date then insertion order. Both bounds are inclusive and
// bucketed to UTC calendar days.
func (s *Store) ActivitiesBetween(ctx context.Context, from, to time.Time) ([]Activity, error) {
	const query = `
SELECT id, date, category, subtype, quantity, unit, emissions_kg, created_at
FROM activities
WHERE date >= ? AND date <= ?
ORDER BY date ASC, id ASC`

	var rows []activityRow
	err := s.db.SelectContext(ctx, &rows, query,
		footprint.DayOf(from).Format(dayFormat),
		footprint.DayOf(to).Format(dayFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}

	out := make([]Activity, 0, len(rows))
	for _, r := range rows {
		a, err := r.activity()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// ActivitiesOn returns the activities logged for one UTC calendar day.
func (s *Store) ActivitiesOn(ctx context.Context, day time.Time) ([]Activity, error) {
	return s.ActivitiesBetween(ctx, day, day)
}

type footprintRow struct {
	Date      string  `db:"date"`
	Transport float64 `db:"transport_kg"`
	Energy    float64 `db:"energy_kg"`
	Food      float64 `db:"food_kg"`
	Waste     float64 `db:"waste_kg"`
	Total     float64 `db:"total_kg"`
}

func (r footprintRow) result() (footprint.Result, error) {
	day, err := time.ParseInLocation(dayFormat, r.Date, time.UTC)
	if err != nil {
		return footprint.Result{}, fmt.Errorf("parsing footprint date %q: %w", r.Date, err)
	}
	return footprint.Result{
		Date:      day,
		Transport: r.Transport,
		Energy:    r.Energy,
		Food:      r.Food,
		Waste:     r.Waste,
		Total:     r.Total,
	}, nil
}

// UpsertFootprint stores the daily result, replacing any previous row for
// the same calendar day. A recomputed day fully overwrites the old one.
func (s *Store) UpsertFootprint(ctx context.Context, r footprint.Result) error {
	const query = `
INSERT INTO daily_footprints (date, transport_kg, energy_kg, food_kg, waste_kg, total_kg, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(date) DO UPDATE SET
    transport_kg = excluded.transport_kg,
    energy_kg = excluded.energy_kg,
    food_kg = excluded.food_kg,
    waste_kg = excluded.waste_kg,
    total_kg = excluded.total_kg,
    updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		footprint.DayOf(r.Date).Format(dayFormat),
		r.Transport, r.Energy, r.Food, r.Waste, r.Total,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting footprint: %w", err)
	}
	return nil
}

// History returns daily footprints with dates in [from, to], ascending.
func (s *Store) History(ctx context.Context, from, to time.Time) ([]footprint.Result, error) {
	const query = `
SELECT date, transport_kg, energy_kg, food_kg, waste_kg, total_kg
FROM daily_footprints
WHERE date >= ? AND date <= ?
ORDER BY date ASC`

	var rows []footprintRow
	err := s.db.SelectContext(ctx, &rows, query,
		footprint.DayOf(from).Format(dayFormat),
		footprint.DayOf(to).Format(dayFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("querying footprint history: %w", err)
	}

	out := make([]footprint.Result, 0, len(rows))
	for _, r := range rows {
		res, err := r.result()
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

type profileRow struct {
	HouseholdSize int    `db:"household_size"`
	Region        string `db:"region"`
	Diet          string `db:"diet"`
}

// SaveProfile stores the user profile, replacing any previous one. The
// store holds exactly one profile; this is a single-user database.
func (s *Store) SaveProfile(ctx context.Context, p features.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	const query = `
INSERT INTO profile (id, household_size, region, diet, updated_at)
VALUES (1, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    household_size = excluded.household_size,
    region = excluded.region,
    diet = excluded.diet,
    updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		p.HouseholdSize,
		p.Region.String(),
		p.Diet.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// Profile returns the stored user profile, or ErrNoProfile when none has
// been saved yet.
func (s *Store) Profile(ctx context.Context) (features.Profile, error) {
	const query = `SELECT household_size, region, diet FROM profile WHERE id = 1`

	var row profileRow
	if err := s.db.GetContext(ctx, &row, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return features.Profile{}, ErrNoProfile
		}
		return features.Profile{}, fmt.Errorf("querying profile: %w", err)
	}

	region, err := features.ParseRegionClass(row.Region)
	if err != nil {
		return features.Profile{}, fmt.Errorf("stored profile: %w", err)
	}
	diet, err := features.ParseDietClass(row.Diet)
	if err != nil {
		return features.Profile{}, fmt.Errorf("stored profile: %w", err)
	}

	return features.Profile{
		HouseholdSize: row.HouseholdSize,
		Region:        region,
		Diet:          diet,
	}, nil
}
