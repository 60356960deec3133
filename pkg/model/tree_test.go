package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepData() ([][]float64, []float64) {
	x := make([][]float64, 20)
	y := make([]float64, 20)
	for i := range x {
		x[i] = []float64{float64(i)}
		if i >= 10 {
			y[i] = 1
		}
	}
	return x, y
}

func TestTreeFitsStepFunction(t *testing.T) {
	x, y := stepData()
	tree := NewRegressionTree(WithSeed(42))
	require.NoError(t, tree.Fit(x, y))

	pred := tree.Predict(x)
	for i := range y {
		assert.InDelta(t, y[i], pred[i], 1e-12, "row %d", i)
	}
}

func TestTreePredictsLeafMean(t *testing.T) {
	// Depth 1 forces a single split; each leaf predicts its mean.
	x := [][]float64{{0}, {1}, {2}, {10}, {11}, {12}}
	y := []float64{1, 2, 3, 10, 11, 12}
	tree := NewRegressionTree(WithMaxDepth(1), WithSeed(42))
	require.NoError(t, tree.Fit(x, y))

	pred := tree.Predict([][]float64{{1}, {11}})
	assert.InDelta(t, 2, pred[0], 1e-12)
	assert.InDelta(t, 11, pred[1], 1e-12)
}

func TestTreeMinSamplesLeaf(t *testing.T) {
	x, y := stepData()
	tree := NewRegressionTree(WithMinSamplesLeaf(8), WithSeed(42))
	require.NoError(t, tree.Fit(x, y))

	// Every leaf must hold at least 8 samples.
	var walk func(n *rtNode)
	walk = func(n *rtNode) {
		if n.isLeaf {
			assert.GreaterOrEqual(t, n.n, 8)
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(tree.root)
}

func TestTreeInvalidHyperparameters(t *testing.T) {
	x, y := stepData()
	cases := []struct {
		name string
		opt  TreeOption
	}{
		{"negative depth", WithMaxDepth(-1)},
		{"min samples split below 2", WithMinSamplesSplit(1)},
		{"non-positive leaf", WithMinSamplesLeaf(0)},
		{"negative max features", WithMaxFeatures(-2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewRegressionTree(tc.opt).Fit(x, y)
			var perr *ParamError
			require.ErrorAs(t, err, &perr)
		})
	}
}

func TestTreeShapeErrors(t *testing.T) {
	x, y := stepData()

	err := NewRegressionTree().Fit(x, y[:10])
	var serr *ShapeError
	require.ErrorAs(t, err, &serr)

	ragged := [][]float64{{1, 2}, {3}}
	err = NewRegressionTree().Fit(ragged, []float64{1, 2})
	require.ErrorAs(t, err, &serr)

	assert.Error(t, NewRegressionTree().Fit(nil, nil))
}

func TestTreeImportances(t *testing.T) {
	// Only the first feature carries signal.
	x := make([][]float64, 30)
	y := make([]float64, 30)
	for i := range x {
		x[i] = []float64{float64(i), 0.5}
		y[i] = float64(i) * 2
	}
	tree := NewRegressionTree(WithSeed(42))
	require.NoError(t, tree.Fit(x, y))

	imp := tree.FeatureImportances()
	require.Len(t, imp, 2)
	sum := 0.0
	for _, v := range imp {
		assert.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, imp[0], imp[1])
	assert.Zero(t, imp[1])
}

func TestTreeDoesNotMutateInputs(t *testing.T) {
	x := [][]float64{{3}, {1}, {2}, {4}}
	y := []float64{3, 1, 2, 4}
	tree := NewRegressionTree(WithSeed(42))
	require.NoError(t, tree.Fit(x, y))

	assert.Equal(t, [][]float64{{3}, {1}, {2}, {4}}, x)
	assert.Equal(t, []float64{3, 1, 2, 4}, y)
}
