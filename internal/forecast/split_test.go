package forecast

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestShuffledIndices(t *testing.T) {
	t.Parallel()

	idx := shuffledIndices(10, testRNG(3))
	require.Len(t, idx, 10)

	sorted := append([]int(nil), idx...)
	sort.Ints(sorted)
	for i, v := range sorted {
		assert.Equal(t, i, v)
	}

	again := shuffledIndices(10, testRNG(3))
	assert.Equal(t, idx, again, "same seed must give the same order")
}

func TestHoldoutSplit(t *testing.T) {
	t.Parallel()

	t.Run("sizes and partition", func(t *testing.T) {
		t.Parallel()
		train, val := holdoutSplit(10, 0.2, testRNG(9))
		assert.Len(t, val, 2)
		assert.Len(t, train, 8)

		seen := make(map[int]bool)
		for _, i := range append(append([]int(nil), train...), val...) {
			assert.False(t, seen[i], "index %d assigned twice", i)
			seen[i] = true
		}
		assert.Len(t, seen, 10)
	})

	t.Run("validation never empty", func(t *testing.T) {
		t.Parallel()
		train, val := holdoutSplit(3, 0.01, testRNG(9))
		assert.Len(t, val, 1)
		assert.Len(t, train, 2)
	})

	t.Run("training never empty", func(t *testing.T) {
		t.Parallel()
		train, val := holdoutSplit(2, 0.5, testRNG(9))
		assert.Len(t, val, 1)
		assert.Len(t, train, 1)
	})
}

func TestKFold(t *testing.T) {
	t.Parallel()

	indices := make([]int, 23)
	for i := range indices {
		indices[i] = i
	}

	folds := kfold(indices, 5, testRNG(11))
	require.Len(t, folds, 5)

	seen := make(map[int]bool)
	for _, fold := range folds {
		// 23 across 5 folds: sizes 5,5,5,4,4.
		assert.GreaterOrEqual(t, len(fold), 4)
		assert.LessOrEqual(t, len(fold), 5)
		for _, i := range fold {
			assert.False(t, seen[i], "index %d in two folds", i)
			seen[i] = true
		}
	}
	assert.Len(t, seen, 23)

	again := kfold(indices, 5, testRNG(11))
	assert.Equal(t, folds, again, "same seed must give the same folds")
}
