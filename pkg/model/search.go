package model

import (
	"errors"
	"math/rand"

	"github.com/spacetelescope/hellouniverse/pkg/split"
)

// Grid is the discrete candidate space for the randomized search.
type Grid struct {
	MaxDepth        []int
	MinSamplesSplit []int
	MinSamplesLeaf  []int
}

// Params is one hyperparameter combination.
type Params struct {
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
}

// Candidate is one evaluated combination with its cross-validation scores.
// Scores are negative mean squared error, so higher is better.
type Candidate struct {
	Params     Params
	FoldScores []float64
	MeanScore  float64
}

// SearchResult holds the winning combination and the forest refit on the
// full training set with it.
type SearchResult struct {
	Best       Candidate
	Candidates []Candidate
	Model      *ForestRegressor
}

// SearchConfig controls the randomized search. Zero values take defaults.
type SearchConfig struct {
	Iterations int // candidate combinations to evaluate (default 100)
	Folds      int // cross-validation folds (default 5)
	Trees      int // forest size per candidate (default 100)
	Seed       int64
}

// RandomizedSearch samples hyperparameter combinations from the grid,
// scores each with k-fold cross-validation on negative MSE, and refits a
// forest with the best combination. The same seed always evaluates the same
// candidates against the same folds. When the grid holds no more
// combinations than Iterations, every combination is evaluated exactly once.
func RandomizedSearch(x [][]float64, y []float64, grid Grid, cfg SearchConfig) (*SearchResult, error) {
	if cfg.Iterations == 0 {
		cfg.Iterations = 100
	}
	if cfg.Folds == 0 {
		cfg.Folds = 5
	}
	if cfg.Trees == 0 {
		cfg.Trees = 100
	}
	if len(grid.MaxDepth) == 0 || len(grid.MinSamplesSplit) == 0 || len(grid.MinSamplesLeaf) == 0 {
		return nil, errors.New("model: search grid has an empty dimension")
	}
	if len(x) != len(y) {
		return nil, &ShapeError{What: "target length", Want: len(x), Got: len(y)}
	}

	cands := enumerate(grid)
	if len(cands) > cfg.Iterations {
		rnd := rand.New(rand.NewSource(cfg.Seed))
		rnd.Shuffle(len(cands), func(a, b int) { cands[a], cands[b] = cands[b], cands[a] })
		cands = cands[:cfg.Iterations]
	}

	folds := split.KFold(len(x), cfg.Folds, cfg.Seed)

	result := &SearchResult{}
	for _, p := range cands {
		c := Candidate{Params: p, FoldScores: make([]float64, len(folds))}
		for fi := range folds {
			trainIdx, testIdx := holdOut(folds, fi)
			forest := forestFor(p, cfg.Trees, cfg.Seed)
			if err := forest.Fit(gatherRows(x, trainIdx), gatherVals(y, trainIdx)); err != nil {
				return nil, err
			}
			pred := forest.Predict(gatherRows(x, testIdx))
			c.FoldScores[fi] = -meanSquaredError(gatherVals(y, testIdx), pred)
		}
		for _, s := range c.FoldScores {
			c.MeanScore += s
		}
		c.MeanScore /= float64(len(c.FoldScores))
		result.Candidates = append(result.Candidates, c)
		if len(result.Candidates) == 1 || c.MeanScore > result.Best.MeanScore {
			result.Best = c
		}
	}

	result.Model = forestFor(result.Best.Params, cfg.Trees, cfg.Seed)
	if err := result.Model.Fit(x, y); err != nil {
		return nil, err
	}
	return result, nil
}

// enumerate lists the full cartesian product in a fixed order.
func enumerate(grid Grid) []Params {
	out := make([]Params, 0, len(grid.MaxDepth)*len(grid.MinSamplesSplit)*len(grid.MinSamplesLeaf))
	for _, d := range grid.MaxDepth {
		for _, s := range grid.MinSamplesSplit {
			for _, l := range grid.MinSamplesLeaf {
				out = append(out, Params{MaxDepth: d, MinSamplesSplit: s, MinSamplesLeaf: l})
			}
		}
	}
	return out
}

func forestFor(p Params, trees int, seed int64) *ForestRegressor {
	return NewForestRegressor(
		WithNEstimators(trees),
		WithForestMaxDepth(p.MaxDepth),
		WithForestMinSamplesSplit(p.MinSamplesSplit),
		WithForestMinSamplesLeaf(p.MinSamplesLeaf),
		WithForestSeed(seed),
	)
}

func holdOut(folds [][]int, test int) (trainIdx, testIdx []int) {
	for fi, fold := range folds {
		if fi == test {
			testIdx = append(testIdx, fold...)
		} else {
			trainIdx = append(trainIdx, fold...)
		}
	}
	return trainIdx, testIdx
}

func gatherRows(x [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, r := range idx {
		out[i] = x[r]
	}
	return out
}

func gatherVals(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, r := range idx {
		out[i] = y[r]
	}
	return out
}

func meanSquaredError(yTrue, yPred []float64) float64 {
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / float64(len(yTrue))
}
