package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack/ecotrack/internal/features"
)

func TestSynthesize_Deterministic(t *testing.T) {
	t.Parallel()

	a := Synthesize(25, 42)
	b := Synthesize(25, 42)
	assert.Equal(t, a, b, "same seed must generate the same corpus")

	c := Synthesize(25, 43)
	assert.NotEqual(t, a, c, "different seeds should diverge")
}

func TestSynthesize_SampleShape(t *testing.T) {
	t.Parallel()

	samples := Synthesize(100, 7)
	require.Len(t, samples, 100)

	for i, s := range samples {
		require.Len(t, s.Features, features.Count, "sample %d", i)

		household := s.Features[0]
		assert.GreaterOrEqual(t, household, 1.0)
		assert.LessOrEqual(t, household, 5.0)

		region := s.Features[1]
		assert.GreaterOrEqual(t, region, 0.0)
		assert.LessOrEqual(t, region, 2.0)

		diet := s.Features[2]
		assert.GreaterOrEqual(t, diet, 0.0)
		assert.LessOrEqual(t, diet, 3.0)

		assert.Greater(t, s.Features[3], 0.0, "sample %d daily mean", i)

		shareSum := s.Features[5] + s.Features[6] + s.Features[7] + s.Features[8]
		assert.InDelta(t, 1.0, shareSum, 1e-9, "sample %d category shares", i)

		assert.GreaterOrEqual(t, s.Target, 1000.0, "sample %d annual floor", i)
	}
}

func TestSynthesize_TrainsCleanly(t *testing.T) {
	t.Parallel()

	samples := Synthesize(60, 13)
	if err := validateSamples(samples); err != nil {
		t.Fatalf("synthetic samples must satisfy training validation: %v", err)
	}
}

func TestDietFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, features.DietVegan, dietFor(0))
	assert.Equal(t, features.DietVegetarian, dietFor(2))
	assert.Equal(t, features.DietAverage, dietFor(7))
	assert.Equal(t, features.DietMeatHeavy, dietFor(15))
}
