package forecast

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
)

// AlgorithmRandomForest is the registry name of the bagged tree ensemble.
const AlgorithmRandomForest = "random_forest"

// Random forest defaults.
const (
	forestTrees   = 100
	forestMinLeaf = 1
)

//nolint:gochecknoinits // algorithm self-registration
func init() {
	Register(AlgorithmRandomForest, func(seed int64) Model {
		return newForest(forestTrees, seed)
	})
}

// forest is a random forest regressor: bootstrap-sampled CART trees with a
// random feature subset considered at each split (one third of the
// features, the usual regression heuristic). Prediction is the mean of the
// per-tree predictions.
type forest struct {
	nTrees int
	seed   int64

	trees       []*treeNode
	importances []float64
	fitted      bool
}

func newForest(nTrees int, seed int64) *forest {
	return &forest{nTrees: nTrees, seed: seed}
}

// Name returns the algorithm identifier.
func (f *forest) Name() string { return AlgorithmRandomForest }

// Fit grows the ensemble. Each tree sees a bootstrap resample of the rows;
// all randomness flows from the configured seed, so a fixed dataset and
// seed always grow the same forest.
func (f *forest) Fit(x [][]float64, y []float64) error {
	n, d, err := validateTrainingShape(x, y)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(uint64(f.seed), uint64(f.seed)^0x9e3779b97f4a7c15))

	maxFeatures := d / 3
	if maxFeatures < 1 {
		maxFeatures = 1
	}
	cfg := treeConfig{maxDepth: 0, minLeaf: forestMinLeaf, maxFeatures: maxFeatures}

	f.trees = make([]*treeNode, 0, f.nTrees)
	total := make([]float64, d)

	idx := make([]int, n)
	for t := 0; t < f.nTrees; t++ {
		for i := range idx {
			idx[i] = rng.IntN(n)
		}
		root, imp := fitTree(x, y, idx, cfg, rng)
		f.trees = append(f.trees, root)
		for j, v := range imp {
			total[j] += v
		}
	}

	f.importances = normalizeImportances(total)
	f.fitted = true
	return nil
}

// Predict returns the mean prediction across all trees.
func (f *forest) Predict(x []float64) float64 {
	if !f.fitted || len(f.trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}

// Importances returns the normalized per-feature SSE reduction summed over
// every split in the ensemble.
func (f *forest) Importances() []float64 {
	if !f.fitted {
		return nil
	}
	return f.importances
}

// forestParams is the persisted form of a fitted forest.
type forestParams struct {
	NTrees      int         `json:"n_trees"`
	Seed        int64       `json:"seed"`
	Trees       []*treeNode `json:"trees"`
	Importances []float64   `json:"importances"`
}

// MarshalParams serializes the fitted ensemble.
func (f *forest) MarshalParams() ([]byte, error) {
	if !f.fitted {
		return nil, ErrNotFitted
	}
	return json.Marshal(forestParams{
		NTrees:      f.nTrees,
		Seed:        f.seed,
		Trees:       f.trees,
		Importances: f.importances,
	})
}

// UnmarshalParams restores a fitted ensemble.
func (f *forest) UnmarshalParams(data []byte) error {
	var p forestParams
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("random forest params: %w", err)
	}
	if len(p.Trees) == 0 {
		return fmt.Errorf("random forest params: no trees")
	}
	f.nTrees = p.NTrees
	f.seed = p.Seed
	f.trees = p.Trees
	f.importances = p.Importances
	f.fitted = true
	return nil
}

// normalizeImportances scales raw importance mass to sum to 1. All-zero
// input (no informative split anywhere) spreads importance uniformly.
func normalizeImportances(raw []float64) []float64 {
	total := 0.0
	for _, v := range raw {
		total += v
	}
	out := make([]float64, len(raw))
	if total == 0 {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
		return out
	}
	for i, v := range raw {
		out[i] = v / total
	}
	return out
}
