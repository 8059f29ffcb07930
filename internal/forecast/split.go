package forecast

import (
	"math/rand/v2"
)

// shuffledIndices returns 0..n-1 in a seeded random order.
func shuffledIndices(n int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng.Shuffle(n, func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
	return idx
}

// holdoutSplit partitions n shuffled indices into training and validation
// sets. The validation set gets round(n * fraction) samples, but always at
// least 1 and never so many that training is empty.
func holdoutSplit(n int, fraction float64, rng *rand.Rand) (train, validation []int) {
	idx := shuffledIndices(n, rng)

	v := int(float64(n)*fraction + 0.5)
	if v < 1 {
		v = 1
	}
	if v > n-1 {
		v = n - 1
	}

	return idx[v:], idx[:v]
}

// kfold assigns the given indices round-robin to k folds after a seeded
// shuffle, so fold sizes differ by at most one. Returns one index list per
// fold.
func kfold(indices []int, k int, rng *rand.Rand) [][]int {
	shuffled := make([]int, len(indices))
	copy(shuffled, indices)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	folds := make([][]int, k)
	for i, idx := range shuffled {
		f := i % k
		folds[f] = append(folds[f], idx)
	}
	return folds
}
