// Package model implements the tree-based regressors used to predict
// spectroscopic redshift: a CART regression tree, a bootstrap-averaged
// forest of them, and a randomized hyperparameter search.
package model

import "fmt"

// Regressor is the capability surface the pipeline depends on. Any
// conforming learner can stand in for the tree or forest.
type Regressor interface {
	Fit(x [][]float64, y []float64) error
	Predict(x [][]float64) []float64
}

// FeatureRanker is implemented by learners that can score per-feature
// influence. Scores are non-negative and sum to 1.
type FeatureRanker interface {
	FeatureImportances() []float64
}

// ShapeError reports mismatched feature/target dimensions.
type ShapeError struct {
	What string
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("model: %s: want %d, got %d", e.What, e.Want, e.Got)
}

// ParamError reports an invalid hyperparameter value.
type ParamError struct {
	Name  string
	Value int
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("model: invalid %s: %d", e.Name, e.Value)
}
