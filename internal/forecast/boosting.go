package forecast

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
)

// AlgorithmGradientBoosting is the registry name of the boosted tree model.
const AlgorithmGradientBoosting = "gradient_boosting"

// Gradient boosting defaults.
const (
	boostingStages       = 100
	boostingLearningRate = 0.1
	boostingMaxDepth     = 3
	boostingMinLeaf      = 1
)

//nolint:gochecknoinits // algorithm self-registration
func init() {
	Register(AlgorithmGradientBoosting, func(seed int64) Model {
		return newBoosting(boostingStages, boostingLearningRate, seed)
	})
}

// boosting is least-squares gradient boosting: shallow CART trees fitted
// stage-wise to the residuals of the running prediction,
//
//	F_0(x)   = mean(y)
//	F_m(x)   = F_{m-1}(x) + η · tree_m(x),  tree_m fit on y − F_{m-1}
//
// with learning rate η shrinking each stage's contribution.
type boosting struct {
	stages       int
	learningRate float64
	seed         int64

	baseline    float64
	trees       []*treeNode
	importances []float64
	fitted      bool
}

func newBoosting(stages int, learningRate float64, seed int64) *boosting {
	return &boosting{stages: stages, learningRate: learningRate, seed: seed}
}

// Name returns the algorithm identifier.
func (g *boosting) Name() string { return AlgorithmGradientBoosting }

// Fit runs the stage-wise residual fitting loop.
func (g *boosting) Fit(x [][]float64, y []float64) error {
	n, d, err := validateTrainingShape(x, y)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(uint64(g.seed), uint64(g.seed)^0xd1b54a32d192ed03))
	cfg := treeConfig{maxDepth: boostingMaxDepth, minLeaf: boostingMinLeaf}

	sum := 0.0
	for _, v := range y {
		sum += v
	}
	g.baseline = sum / float64(n)

	current := make([]float64, n)
	for i := range current {
		current[i] = g.baseline
	}

	residuals := make([]float64, n)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	g.trees = make([]*treeNode, 0, g.stages)
	total := make([]float64, d)

	for stage := 0; stage < g.stages; stage++ {
		allZero := true
		for i := range residuals {
			residuals[i] = y[i] - current[i]
			if residuals[i] != 0 {
				allZero = false
			}
		}
		// Perfect fit reached; further stages would only add noise trees.
		if allZero {
			break
		}

		root, imp := fitTree(x, residuals, idx, cfg, rng)
		g.trees = append(g.trees, root)
		for j, v := range imp {
			total[j] += v
		}

		for i, row := range x {
			current[i] += g.learningRate * root.predict(row)
		}
	}

	g.importances = normalizeImportances(total)
	g.fitted = true
	return nil
}

// Predict sums the baseline and the shrunken stage contributions.
func (g *boosting) Predict(x []float64) float64 {
	if !g.fitted {
		return 0
	}
	out := g.baseline
	for _, t := range g.trees {
		out += g.learningRate * t.predict(x)
	}
	return out
}

// Importances returns the normalized per-feature SSE reduction summed over
// every stage.
func (g *boosting) Importances() []float64 {
	if !g.fitted {
		return nil
	}
	return g.importances
}

// boostingParams is the persisted form of a fitted boosting model.
type boostingParams struct {
	Stages       int         `json:"stages"`
	LearningRate float64     `json:"learning_rate"`
	Seed         int64       `json:"seed"`
	Baseline     float64     `json:"baseline"`
	Trees        []*treeNode `json:"trees"`
	Importances  []float64   `json:"importances"`
}

// MarshalParams serializes the fitted stages.
func (g *boosting) MarshalParams() ([]byte, error) {
	if !g.fitted {
		return nil, ErrNotFitted
	}
	return json.Marshal(boostingParams{
		Stages:       g.stages,
		LearningRate: g.learningRate,
		Seed:         g.seed,
		Baseline:     g.baseline,
		Trees:        g.trees,
		Importances:  g.importances,
	})
}

// UnmarshalParams restores fitted stages.
func (g *boosting) UnmarshalParams(data []byte) error {
	var p boostingParams
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("gradient boosting params: %w", err)
	}
	g.stages = p.Stages
	g.learningRate = p.LearningRate
	g.seed = p.Seed
	g.baseline = p.Baseline
	g.trees = p.Trees
	g.importances = p.Importances
	g.fitted = true
	return nil
}
