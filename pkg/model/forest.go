package model

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// ForestRegressor averages many regression trees fit on bootstrap resamples.
type ForestRegressor struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Bootstrap       bool
	Seed            int64

	// Internal state
	Trees []*RegressionTree
}

// ForestOption is functional config for ForestRegressor.
type ForestOption func(*ForestRegressor)

func WithNEstimators(n int) ForestOption { return func(f *ForestRegressor) { f.NEstimators = n } }
func WithBootstrap(b bool) ForestOption  { return func(f *ForestRegressor) { f.Bootstrap = b } }
func WithForestMaxDepth(d int) ForestOption {
	return func(f *ForestRegressor) { f.MaxDepth = d }
}
func WithForestMinSamplesSplit(n int) ForestOption {
	return func(f *ForestRegressor) { f.MinSamplesSplit = n }
}
func WithForestMinSamplesLeaf(n int) ForestOption {
	return func(f *ForestRegressor) { f.MinSamplesLeaf = n }
}
func WithForestMaxFeatures(k int) ForestOption {
	return func(f *ForestRegressor) { f.MaxFeatures = k }
}
func WithForestSeed(seed int64) ForestOption { return func(f *ForestRegressor) { f.Seed = seed } }

// NewForestRegressor initializes the forest with sensible defaults.
func NewForestRegressor(opts ...ForestOption) *ForestRegressor {
	f := &ForestRegressor{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Bootstrap:       true,
		Seed:            time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit trains each tree on its own bootstrap resample. Trees fit in
// parallel; every tree derives its own seed from the forest seed, so the
// fitted forest is identical regardless of scheduling.
func (f *ForestRegressor) Fit(x [][]float64, y []float64) error {
	if f.NEstimators < 1 {
		return &ParamError{Name: "n estimators", Value: f.NEstimators}
	}
	if len(x) == 0 {
		return errors.New("forest: empty X")
	}
	n := len(x)
	if len(y) != n {
		return &ShapeError{What: "target length", Want: n, Got: len(y)}
	}

	f.Trees = make([]*RegressionTree, f.NEstimators)
	errCh := make(chan error, f.NEstimators)
	var wg sync.WaitGroup

	for i := 0; i < f.NEstimators; i++ {
		wg.Add(1)
		go func(ti int) {
			defer wg.Done()
			treeSeed := f.Seed + int64(ti)
			rnd := rand.New(rand.NewSource(treeSeed))

			sample := make([]int, n)
			for j := range sample {
				if f.Bootstrap {
					sample[j] = rnd.Intn(n)
				} else {
					sample[j] = j
				}
			}

			tree := NewRegressionTree(
				WithMaxDepth(f.MaxDepth),
				WithMinSamplesSplit(f.MinSamplesSplit),
				WithMinSamplesLeaf(f.MinSamplesLeaf),
				WithMaxFeatures(f.MaxFeatures),
				WithSeed(treeSeed),
			)
			if err := tree.fitIndices(x, y, sample); err != nil {
				errCh <- err
				return
			}
			f.Trees[ti] = tree
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// Predict returns the mean of all tree predictions per row.
func (f *ForestRegressor) Predict(x [][]float64) []float64 {
	out := make([]float64, len(x))
	if len(f.Trees) == 0 {
		return out
	}
	for _, tree := range f.Trees {
		for i, v := range tree.Predict(x) {
			out[i] += v
		}
	}
	for i := range out {
		out[i] /= float64(len(f.Trees))
	}
	return out
}

// FeatureImportances averages the per-tree importances and renormalizes so
// the scores sum to 1.
func (f *ForestRegressor) FeatureImportances() []float64 {
	if len(f.Trees) == 0 {
		return nil
	}
	out := make([]float64, f.Trees[0].nFeatures)
	for _, tree := range f.Trees {
		for i, v := range tree.FeatureImportances() {
			out[i] += v
		}
	}
	total := 0.0
	for _, v := range out {
		total += v
	}
	if total == 0 {
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}
