package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack/ecotrack/internal/factors"
	"github.com/ecotrack/ecotrack/internal/features"
	"github.com/ecotrack/ecotrack/internal/footprint"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "eco.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func utcDay(year int, month time.Month, dayNum int) time.Time {
	return time.Date(year, month, dayNum, 0, 0, 0, 0, time.UTC)
}

func assertResult(t *testing.T, want, got footprint.Result) {
	t.Helper()
	assert.True(t, got.Date.Equal(footprint.DayOf(want.Date)), "date %s vs %s", got.Date, want.Date)
	assert.InDelta(t, want.Transport, got.Transport, 1e-9)
	assert.InDelta(t, want.Energy, got.Energy, 1e-9)
	assert.InDelta(t, want.Food, got.Food, 1e-9)
	assert.InDelta(t, want.Waste, got.Waste, 1e-9)
	assert.InDelta(t, want.Total, got.Total, 1e-9)
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deeper", "eco.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening must be idempotent: the schema already exists.
	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestSaveActivityBatch_RoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	loggedAt := time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC)
	err := s.SaveActivityBatch(ctx, []Entry{{
		Record: footprint.ActivityRecord{
			Date:     loggedAt,
			Category: factors.CategoryTransport,
			Subtype:  "gasoline_car",
			Quantity: 100,
			Unit:     "mile",
		},
		EmissionsKg: 41.1,
	}})
	require.NoError(t, err)

	got, err := s.ActivitiesOn(ctx, loggedAt)
	require.NoError(t, err)
	require.Len(t, got, 1)

	a := got[0]
	assert.Positive(t, a.ID)
	assert.True(t, a.Record.Date.Equal(utcDay(2025, 6, 2)), "timestamps bucket to their UTC day")
	assert.Equal(t, factors.CategoryTransport, a.Record.Category)
	assert.Equal(t, "gasoline_car", a.Record.Subtype)
	assert.InDelta(t, 100, a.Record.Quantity, 1e-9)
	assert.Equal(t, "mile", a.Record.Unit)
	assert.InDelta(t, 41.1, a.EmissionsKg, 1e-9)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestActivitiesBetween_OrderAndBounds(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	entry := func(day time.Time, subtype string) Entry {
		return Entry{
			Record: footprint.ActivityRecord{
				Date:     day,
				Category: factors.CategoryTransport,
				Subtype:  subtype,
				Quantity: 1,
				Unit:     "mile",
			},
			EmissionsKg: 0.5,
		}
	}

	d1, d2, d3 := utcDay(2025, 6, 1), utcDay(2025, 6, 2), utcDay(2025, 6, 3)

	// Insert out of date order to prove reads re-sort.
	err := s.SaveActivityBatch(ctx, []Entry{
		entry(d2, "bus"), entry(d1, "train"), entry(d1, "subway"), entry(d3, "bus"),
	})
	require.NoError(t, err)

	got, err := s.ActivitiesBetween(ctx, d1, d2)
	require.NoError(t, err)
	require.Len(t, got, 3, "the day-3 entry is outside the range")

	assert.Equal(t, "train", got[0].Record.Subtype)
	assert.Equal(t, "subway", got[1].Record.Subtype)
	assert.Equal(t, "bus", got[2].Record.Subtype)
	assert.True(t, got[0].Record.Date.Equal(d1))
	assert.True(t, got[2].Record.Date.Equal(d2))
	assert.Less(t, got[0].ID, got[1].ID, "same-day rows keep insertion order")
}

func TestSaveActivityBatch(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	d1, d2 := utcDay(2025, 7, 1), utcDay(2025, 7, 2)
	entries := []Entry{
		{Record: footprint.ActivityRecord{Date: d1, Category: factors.CategoryEnergy, Subtype: "electricity", Quantity: 30, Unit: "kWh"}, EmissionsKg: 27.6},
		{Record: footprint.ActivityRecord{Date: d1, Category: factors.CategoryFood, Subtype: "beef", Quantity: 0.5, Unit: "kg"}, EmissionsKg: 13.5},
		{Record: footprint.ActivityRecord{Date: d2, Category: factors.CategoryWaste, Subtype: "landfill", Quantity: 2, Unit: "kg"}, EmissionsKg: 1.14},
	}

	require.NoError(t, s.SaveActivityBatch(ctx, entries))
	require.NoError(t, s.SaveActivityBatch(ctx, nil), "empty batch is a no-op")

	got, err := s.ActivitiesBetween(ctx, d1, d2)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestUpsertFootprint_ReplacesDay(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	d := utcDay(2025, 6, 5)

	require.NoError(t, s.UpsertFootprint(ctx, footprint.Result{
		Date: d, Transport: 10, Total: 10,
	}))
	recomputed := footprint.Result{Date: d, Transport: 4, Energy: 6, Total: 10}
	require.NoError(t, s.UpsertFootprint(ctx, recomputed))

	got, err := s.History(ctx, d, d)
	require.NoError(t, err)
	require.Len(t, got, 1, "upsert must not create a second row for the day")
	assertResult(t, recomputed, got[0])
}

func TestHistory_AscendingWithinRange(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	days := []int{3, 1, 2, 5}
	for _, d := range days {
		require.NoError(t, s.UpsertFootprint(ctx, footprint.Result{
			Date:  utcDay(2025, 6, d),
			Food:  float64(d),
			Total: float64(d),
		}))
	}

	got, err := s.History(ctx, utcDay(2025, 6, 1), utcDay(2025, 6, 3))
	require.NoError(t, err)
	require.Len(t, got, 3, "day five is outside the range")
	for i, want := range []int{1, 2, 3} {
		assert.True(t, got[i].Date.Equal(utcDay(2025, 6, want)))
		assert.InDelta(t, float64(want), got[i].Total, 1e-9)
	}
}

func TestHistory_EmptyRange(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	got, err := s.History(context.Background(), utcDay(2025, 6, 1), utcDay(2025, 6, 30))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProfile_RoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Profile(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoProfile))

	first := features.Profile{HouseholdSize: 3, Region: features.RegionSuburban, Diet: features.DietVegetarian}
	require.NoError(t, s.SaveProfile(ctx, first))

	got, err := s.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	second := features.Profile{HouseholdSize: 2, Region: features.RegionRural, Diet: features.DietVegan}
	require.NoError(t, s.SaveProfile(ctx, second))

	got, err = s.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got, "saving again replaces the single profile row")
}

func TestSaveProfile_RejectsInvalid(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.SaveProfile(context.Background(), features.Profile{HouseholdSize: 0, Region: features.RegionUrban, Diet: features.DietAverage})
	require.Error(t, err)
	assert.True(t, errors.Is(err, features.ErrInvalidProfile))
}
