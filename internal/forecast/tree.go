package forecast

import (
	"math/rand/v2"
	"sort"
)

// treeNode is one node of a fitted regression tree. Split nodes carry a
// feature index and threshold; leaves carry the prediction value. JSON keys
// are kept short because forests persist thousands of nodes.
type treeNode struct {
	Leaf      bool      `json:"leaf,omitempty"`
	Value     float64   `json:"v,omitempty"`
	Feature   int       `json:"f,omitempty"`
	Threshold float64   `json:"t,omitempty"`
	Left      *treeNode `json:"l,omitempty"`
	Right     *treeNode `json:"r,omitempty"`
}

// predict walks the tree for one feature row.
func (n *treeNode) predict(x []float64) float64 {
	node := n
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// treeConfig bounds tree growth.
type treeConfig struct {
	// maxDepth limits tree height; 0 means unlimited.
	maxDepth int
	// minLeaf is the minimum sample count in a leaf.
	minLeaf int
	// maxFeatures is the number of features considered per split; 0 means
	// all features.
	maxFeatures int
}

// treeBuilder fits one CART regression tree by recursive variance-reduction
// splitting. Splits maximize the decrease in total squared error; the
// decrease is accumulated per feature as the tree's importance signal.
type treeBuilder struct {
	x   [][]float64
	y   []float64
	d   int
	cfg treeConfig
	rng *rand.Rand

	importances []float64
}

// fitTree grows a tree over the samples selected by idx and returns the
// root plus unnormalized per-feature importances (total SSE reduction
// attributed to splits on that feature).
func fitTree(x [][]float64, y []float64, idx []int, cfg treeConfig, rng *rand.Rand) (*treeNode, []float64) {
	b := &treeBuilder{
		x:           x,
		y:           y,
		d:           len(x[0]),
		cfg:         cfg,
		rng:         rng,
		importances: make([]float64, len(x[0])),
	}
	root := b.build(idx, 0)
	return root, b.importances
}

// build grows one node over the samples in idx.
func (b *treeBuilder) build(idx []int, depth int) *treeNode {
	n := len(idx)
	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += b.y[i]
		sumSq += b.y[i] * b.y[i]
	}
	mean := sum / float64(n)
	sse := sumSq - sum*sum/float64(n)
	if sse < 0 {
		sse = 0
	}

	if (b.cfg.maxDepth > 0 && depth >= b.cfg.maxDepth) || n < 2*b.cfg.minLeaf || sse <= 1e-12 {
		return &treeNode{Leaf: true, Value: mean}
	}

	feature, threshold, gain := b.bestSplit(idx, sse)
	if gain <= 0 {
		return &treeNode{Leaf: true, Value: mean}
	}
	b.importances[feature] += gain

	left := make([]int, 0, n)
	right := make([]int, 0, n)
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      b.build(left, depth+1),
		Right:     b.build(right, depth+1),
	}
}

// bestSplit scans candidate features for the split with the largest SSE
// reduction. Candidate order and the sort inside each feature are fully
// deterministic, so identical data and seed always grow identical trees.
func (b *treeBuilder) bestSplit(idx []int, parentSSE float64) (feature int, threshold, gain float64) {
	candidates := b.candidateFeatures()

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	sorted := make([]int, len(idx))
	n := len(idx)

	for _, f := range candidates {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, c int) bool {
			va, vc := b.x[sorted[a]][f], b.x[sorted[c]][f]
			if va != vc {
				return va < vc
			}
			return sorted[a] < sorted[c]
		})

		totalSum := 0.0
		for _, i := range sorted {
			totalSum += b.y[i]
		}

		leftSum, leftSumSq := 0.0, 0.0
		totalSumSq := 0.0
		for _, i := range sorted {
			totalSumSq += b.y[i] * b.y[i]
		}

		for k := 1; k < n; k++ {
			yi := b.y[sorted[k-1]]
			leftSum += yi
			leftSumSq += yi * yi

			// No split point between equal feature values.
			if b.x[sorted[k-1]][f] == b.x[sorted[k]][f] {
				continue
			}
			if k < b.cfg.minLeaf || n-k < b.cfg.minLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			rightSumSq := totalSumSq - leftSumSq

			leftSSE := leftSumSq - leftSum*leftSum/float64(k)
			rightSSE := rightSumSq - rightSum*rightSum/float64(n-k)
			if leftSSE < 0 {
				leftSSE = 0
			}
			if rightSSE < 0 {
				rightSSE = 0
			}

			g := parentSSE - leftSSE - rightSSE
			if g > bestGain {
				bestGain = g
				bestFeature = f
				bestThreshold = (b.x[sorted[k-1]][f] + b.x[sorted[k]][f]) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, 0
	}
	return bestFeature, bestThreshold, bestGain
}

// candidateFeatures returns the feature indices considered for the next
// split: all features, or a random subset of maxFeatures when configured.
func (b *treeBuilder) candidateFeatures() []int {
	if b.cfg.maxFeatures <= 0 || b.cfg.maxFeatures >= b.d {
		all := make([]int, b.d)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := b.rng.Perm(b.d)
	subset := perm[:b.cfg.maxFeatures]
	sort.Ints(subset)
	return subset
}
