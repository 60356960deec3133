package model

import (
	"errors"
	"math/rand"
	"sort"
	"time"
)

// RegressionTree is a CART-style regressor: it recursively partitions
// feature space to minimize within-node squared error and predicts the mean
// target of each leaf.
type RegressionTree struct {
	// Hyperparameters / options
	MaxDepth        int   // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit int   // minimum samples to attempt a split
	MinSamplesLeaf  int   // minimum samples required in each leaf
	MaxFeatures     int   // 0 => consider all features at each split
	Seed            int64 // seed for feature subsampling

	// internals
	root        *rtNode
	nFeatures   int
	importances []float64
}

type rtNode struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold => left
	left      *rtNode
	right     *rtNode

	n     int
	value float64 // mean target of samples in this node
}

// TreeOption is functional config for RegressionTree.
type TreeOption func(*RegressionTree)

func WithMaxDepth(d int) TreeOption { return func(t *RegressionTree) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) TreeOption {
	return func(t *RegressionTree) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) TreeOption {
	return func(t *RegressionTree) { t.MinSamplesLeaf = n }
}
func WithMaxFeatures(k int) TreeOption { return func(t *RegressionTree) { t.MaxFeatures = k } }
func WithSeed(seed int64) TreeOption   { return func(t *RegressionTree) { t.Seed = seed } }

// NewRegressionTree returns a tree with sensible defaults.
func NewRegressionTree(opts ...TreeOption) *RegressionTree {
	t := &RegressionTree{
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Seed:            time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *RegressionTree) validate() error {
	if t.MaxDepth < 0 {
		return &ParamError{Name: "max depth", Value: t.MaxDepth}
	}
	if t.MinSamplesSplit < 2 {
		return &ParamError{Name: "min samples split", Value: t.MinSamplesSplit}
	}
	if t.MinSamplesLeaf < 1 {
		return &ParamError{Name: "min samples leaf", Value: t.MinSamplesLeaf}
	}
	if t.MaxFeatures < 0 {
		return &ParamError{Name: "max features", Value: t.MaxFeatures}
	}
	return nil
}

// Fit trains the tree on X (n x p) and y (n targets). Inputs are not
// modified; refitting replaces the previous tree.
func (t *RegressionTree) Fit(x [][]float64, y []float64) error {
	n := len(x)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.fitIndices(x, y, idx)
}

// fitIndices trains on the given sample indices only. The forest uses this
// for bootstrap resampling without copying rows.
func (t *RegressionTree) fitIndices(x [][]float64, y []float64, idx []int) error {
	if err := t.validate(); err != nil {
		return err
	}
	if len(x) == 0 || len(idx) == 0 {
		return errors.New("tree: empty X")
	}
	if len(y) != len(x) {
		return &ShapeError{What: "target length", Want: len(x), Got: len(y)}
	}
	p := len(x[0])
	for i := range x {
		if len(x[i]) != p {
			return &ShapeError{What: "row width", Want: p, Got: len(x[i])}
		}
	}

	t.nFeatures = p
	t.importances = make([]float64, p)
	rnd := rand.New(rand.NewSource(t.Seed))
	t.root = t.buildNode(x, y, idx, 0, rnd)
	return nil
}

// Predict returns the leaf mean for each row.
func (t *RegressionTree) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	if t.root == nil {
		return out
	}
	for i, row := range x {
		node := t.root
		for !node.isLeaf {
			if row[node.feature] <= node.threshold {
				node = node.left
			} else {
				node = node.right
			}
		}
		out[i] = node.value
	}
	return out
}

// FeatureImportances returns per-feature impurity-decrease scores normalized
// to sum to 1. A tree that never split returns all zeros.
func (t *RegressionTree) FeatureImportances() []float64 {
	out := make([]float64, len(t.importances))
	total := 0.0
	for _, v := range t.importances {
		total += v
	}
	if total == 0 {
		return out
	}
	for i, v := range t.importances {
		out[i] = v / total
	}
	return out
}

// rtSplit holds the best split found for a node.
type rtSplit struct {
	gain      float64
	feature   int
	threshold float64
	leftIdx   []int
	rightIdx  []int
}

func (t *RegressionTree) buildNode(x [][]float64, y []float64, idx []int, depth int, rnd *rand.Rand) *rtNode {
	sum, sumSq := 0.0, 0.0
	for _, ii := range idx {
		sum += y[ii]
		sumSq += y[ii] * y[ii]
	}
	n := float64(len(idx))
	mean := sum / n
	nodeSSE := sumSq - sum*sum/n

	node := &rtNode{n: len(idx), value: mean}
	if nodeSSE <= 1e-12 || len(idx) < t.MinSamplesSplit {
		node.isLeaf = true
		return node
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		node.isLeaf = true
		return node
	}

	feats := t.candidateFeatures(rnd)
	best := rtSplit{gain: 0, feature: -1}
	for _, f := range feats {
		if s := t.bestSplitForFeature(x, y, idx, f, nodeSSE); s.gain > best.gain {
			best = s
		}
	}
	if best.feature == -1 {
		node.isLeaf = true
		return node
	}

	t.importances[best.feature] += best.gain
	node.feature = best.feature
	node.threshold = best.threshold
	node.left = t.buildNode(x, y, best.leftIdx, depth+1, rnd)
	node.right = t.buildNode(x, y, best.rightIdx, depth+1, rnd)
	return node
}

func (t *RegressionTree) candidateFeatures(rnd *rand.Rand) []int {
	feats := make([]int, t.nFeatures)
	for j := range feats {
		feats[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < t.nFeatures {
		rnd.Shuffle(len(feats), func(a, b int) { feats[a], feats[b] = feats[b], feats[a] })
		feats = feats[:t.MaxFeatures]
	}
	return feats
}

type rtPair struct {
	v float64
	i int
}

// bestSplitForFeature scans sorted thresholds, tracking left/right sums so
// each candidate split's squared error is evaluated in constant time.
func (t *RegressionTree) bestSplitForFeature(x [][]float64, y []float64, idx []int, f int, parentSSE float64) rtSplit {
	result := rtSplit{gain: 0, feature: -1}

	pairs := make([]rtPair, len(idx))
	for k, ii := range idx {
		pairs[k] = rtPair{v: x[ii][f], i: ii}
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

	tSum, tSumSq := 0.0, 0.0
	for _, pr := range pairs {
		tSum += y[pr.i]
		tSumSq += y[pr.i] * y[pr.i]
	}

	lSum, lSumSq := 0.0, 0.0
	n := len(pairs)
	for s := 1; s < n; s++ {
		yv := y[pairs[s-1].i]
		lSum += yv
		lSumSq += yv * yv
		if pairs[s].v == pairs[s-1].v {
			continue
		}
		if s < t.MinSamplesLeaf || n-s < t.MinSamplesLeaf {
			continue
		}
		nl, nr := float64(s), float64(n-s)
		rSum, rSumSq := tSum-lSum, tSumSq-lSumSq
		sse := (lSumSq - lSum*lSum/nl) + (rSumSq - rSum*rSum/nr)
		gain := parentSSE - sse
		if gain > result.gain {
			result = rtSplit{
				gain:      gain,
				feature:   f,
				threshold: (pairs[s-1].v + pairs[s].v) / 2,
			}
			result.leftIdx = make([]int, s)
			result.rightIdx = make([]int, n-s)
			for k := 0; k < s; k++ {
				result.leftIdx[k] = pairs[k].i
			}
			for k := s; k < n; k++ {
				result.rightIdx[k-s] = pairs[k].i
			}
		}
	}
	return result
}
