package eval

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/spacetelescope/hellouniverse/pkg/model"
	"github.com/spacetelescope/hellouniverse/pkg/split"
)

// CVResult holds per-fold scores (negative MSE, higher is better) and their
// mean and population standard deviation.
type CVResult struct {
	Scores []float64
	Mean   float64
	Std    float64
}

// CrossValidate runs k-fold cross-validation over the full dataset. Each
// fold trains a fresh model from the factory on the other k-1 folds and
// scores the held-out fold with negative MSE. Fold assignment is seeded and
// reproducible.
func CrossValidate(factory func() model.Regressor, x [][]float64, y []float64, k int, seed int64) (*CVResult, error) {
	if len(x) != len(y) {
		return nil, &model.ShapeError{What: "target length", Want: len(x), Got: len(y)}
	}
	if k < 2 || k > len(x) {
		return nil, &model.ParamError{Name: "folds", Value: k}
	}

	folds := split.KFold(len(x), k, seed)
	res := &CVResult{Scores: make([]float64, k)}
	for fi := range folds {
		var trainIdx, testIdx []int
		for fj, fold := range folds {
			if fj == fi {
				testIdx = append(testIdx, fold...)
			} else {
				trainIdx = append(trainIdx, fold...)
			}
		}

		m := factory()
		if err := m.Fit(gatherRows(x, trainIdx), Gather(y, trainIdx)); err != nil {
			return nil, err
		}
		pred := m.Predict(gatherRows(x, testIdx))
		mse, err := MSE(Gather(y, testIdx), pred)
		if err != nil {
			return nil, err
		}
		res.Scores[fi] = -mse
	}

	res.Mean = stat.Mean(res.Scores, nil)
	std, err := stats.StandardDeviationPopulation(res.Scores)
	if err != nil {
		return nil, err
	}
	res.Std = std
	return res, nil
}

func gatherRows(x [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, r := range idx {
		out[i] = x[r]
	}
	return out
}
