// Package eval scores fitted models: mean squared error, k-fold
// cross-validation, and comparison against the catalog's photometric
// baseline estimate.
package eval

import (
	"math"

	"github.com/spacetelescope/hellouniverse/pkg/model"
)

// MSE is the mean of squared residuals, mean((pred-true)^2), with no
// regularization term. Symmetric in its arguments.
func MSE(yTrue, yPred []float64) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, &model.ShapeError{What: "prediction length", Want: len(yTrue), Got: len(yPred)}
	}
	if len(yTrue) == 0 {
		return 0, &model.ShapeError{What: "prediction length", Want: 1, Got: 0}
	}
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / float64(len(yTrue)), nil
}

// RMSE is the square root of MSE, in the target's units.
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// Gather selects values at the given indices, preserving order. Used to
// re-join a partition's retained row indices to an auxiliary catalog column
// such as the baseline redshift estimate.
func Gather(vals []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, r := range idx {
		out[i] = vals[r]
	}
	return out
}

// BaselineMSE scores a pre-existing estimate column against the truth over
// one partition. baseline is indexed like the cleaned dataset; rows are the
// partition's retained indices into it.
func BaselineMSE(baseline []float64, rows []int, yTrue []float64) (float64, error) {
	return MSE(yTrue, Gather(baseline, rows))
}
