package forecast

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Options configures a RandomForest.
type Options struct {
	Seed        int64
	NEstimators int
	// MaxFeatures is the number of features considered at each split. Zero or a
	// value above the feature count means every feature.
	MaxFeatures int
	// Replacement controls whether the per-split feature draw may repeat a feature.
	Replacement bool
	// SampleBagging trains every tree on a bootstrap sample of the rows.
	SampleBagging bool
	// MinNodeSize is the sample count at or below which a node becomes a leaf.
	MinNodeSize int
	// MaxDepth limits tree depth; zero means unlimited.
	MaxDepth int
}

// DefaultOptions returns the configuration used for sales forecasts.
func DefaultOptions() Options {
	return Options{
		Seed:          3,
		NEstimators:   200,
		MaxFeatures:   2,
		Replacement:   false,
		SampleBagging: true,
		MinNodeSize:   3,
	}
}

var (
	ErrEmptyTrainingSet = errors.New("training set is empty")
	ErrNotFitted        = errors.New("model is not fitted")
)

// RandomForest is an ensemble of CART regression trees whose prediction is the
// mean of its trees.
type RandomForest struct {
	opts      Options
	trees     []*tree
	nFeatures int
}

// NewRandomForest creates an unfitted forest.
func NewRandomForest(opts Options) *RandomForest {
	if opts.NEstimators <= 0 {
		opts.NEstimators = 1
	}
	if opts.MinNodeSize <= 0 {
		opts.MinNodeSize = 1
	}
	return &RandomForest{opts: opts}
}

// Fit trains the forest. It always starts from opts.Seed, so fitting the same
// data twice gives the same model.
func (rf *RandomForest) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return fmt.Errorf("got %d rows and %d targets", len(X), len(y))
	}
	nFeatures := len(X[0])
	if nFeatures == 0 {
		return errors.New("rows have no features")
	}
	for i, row := range X {
		if len(row) != nFeatures {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), nFeatures)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("row %d has a non-finite feature", i)
			}
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return fmt.Errorf("target %d is not finite", i)
		}
	}

	rng := rand.New(rand.NewSource(rf.opts.Seed))
	rf.nFeatures = nFeatures
	rf.trees = make([]*tree, 0, rf.opts.NEstimators)

	n := len(X)
	for e := 0; e < rf.opts.NEstimators; e++ {
		idx := make([]int, n)
		if rf.opts.SampleBagging {
			for i := range idx {
				idx[i] = rng.Intn(n)
			}
		} else {
			for i := range idx {
				idx[i] = i
			}
		}

		t := &tree{opts: rf.opts, nFeatures: nFeatures, rng: rng}
		t.root = t.build(X, y, idx, 0)
		t.rng = nil
		rf.trees = append(rf.trees, t)
	}
	return nil
}

// Predict returns the mean prediction of all trees for one row.
func (rf *RandomForest) Predict(x []float64) (float64, error) {
	if len(rf.trees) == 0 {
		return 0, ErrNotFitted
	}
	if len(x) != rf.nFeatures {
		return 0, fmt.Errorf("got %d features, want %d", len(x), rf.nFeatures)
	}
	sum := 0.0
	for _, t := range rf.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(rf.trees)), nil
}

// Size returns the number of fitted trees.
func (rf *RandomForest) Size() int {
	return len(rf.trees)
}

type node struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *node
	right     *node
}

type tree struct {
	opts      Options
	nFeatures int
	rng       *rand.Rand
	root      *node
}

func (t *tree) predict(x []float64) float64 {
	n := t.root
	for !n.leaf {
		if x[n.feature] < n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func (t *tree) build(X [][]float64, y []float64, idx []int, depth int) *node {
	mean, sse := meanSSE(y, idx)
	if len(idx) <= t.opts.MinNodeSize || sse == 0 || (t.opts.MaxDepth > 0 && depth >= t.opts.MaxDepth) {
		return &node{leaf: true, value: mean}
	}

	bestSSE := sse
	bestFeature := -1
	bestThreshold := 0.0
	var bestLeft, bestRight []int

	for _, f := range t.sampleFeatures() {
		sorted := make([]int, len(idx))
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool {
			return X[sorted[a]][f] < X[sorted[b]][f]
		})

		var totalSum, totalSq float64
		for _, i := range sorted {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		var leftSum, leftSq float64
		for k := 0; k < len(sorted)-1; k++ {
			v := y[sorted[k]]
			leftSum += v
			leftSq += v * v

			cur, next := X[sorted[k]][f], X[sorted[k+1]][f]
			if cur == next {
				continue
			}

			nl := float64(k + 1)
			nr := float64(len(sorted) - k - 1)
			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			split := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)

			if split < bestSSE-1e-12 {
				bestSSE = split
				bestFeature = f
				bestThreshold = (cur + next) / 2
				bestLeft = append([]int(nil), sorted[:k+1]...)
				bestRight = append([]int(nil), sorted[k+1:]...)
			}
		}
	}

	if bestFeature < 0 {
		return &node{leaf: true, value: mean}
	}

	return &node{
		feature:   bestFeature,
		threshold: bestThreshold,
		value:     mean,
		left:      t.build(X, y, bestLeft, depth+1),
		right:     t.build(X, y, bestRight, depth+1),
	}
}

// sampleFeatures draws the candidate features for one split.
func (t *tree) sampleFeatures() []int {
	k := t.opts.MaxFeatures
	if k <= 0 || k >= t.nFeatures {
		all := make([]int, t.nFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}

	if t.opts.Replacement {
		out := make([]int, k)
		for i := range out {
			out[i] = t.rng.Intn(t.nFeatures)
		}
		return out
	}

	perm := make([]int, t.nFeatures)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + t.rng.Intn(t.nFeatures-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	out := perm[:k]
	sort.Ints(out)
	return out
}

func meanSSE(y []float64, idx []int) (float64, float64) {
	if len(idx) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	mean := sum / float64(len(idx))
	sse := 0.0
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	return mean, sse
}
