// Package split partitions a cleaned dataset into train, validation, and
// test subsets with explicit, reproducible seeding.
package split

import (
	"errors"
	"math/rand"
)

// DefaultSeed is the seed the published analysis uses everywhere.
const DefaultSeed = 42

// Subset is one partition of the dataset. Rows holds the indices into the
// cleaned dataset that produced each row, so callers can re-join auxiliary
// catalog columns to predictions.
type Subset struct {
	X    [][]float64
	Y    []float64
	Rows []int
}

// Split is a disjoint, exhaustive 70/15/15 partition.
type Split struct {
	Train Subset
	Val   Subset
	Test  Subset
}

// TrainValTest splits X and y 70/15/15. Two sequential permutations are
// drawn, each from a fresh source with the same seed: the first peels off
// the 30% holdout, the second halves the holdout into validation and test.
func TrainValTest(x [][]float64, y []float64, seed int64) (*Split, error) {
	n := len(x)
	if len(y) != n {
		return nil, errors.New("split: X and y length mismatch")
	}
	if n == 0 {
		return nil, errors.New("split: empty dataset")
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nHold := int(float64(n) * 0.3)
	hold, train := perm[:nHold], perm[nHold:]

	perm2 := rand.New(rand.NewSource(seed)).Perm(len(hold))
	nTest := len(hold) / 2
	test := make([]int, 0, nTest)
	val := make([]int, 0, len(hold)-nTest)
	for i, p := range perm2 {
		if i < nTest {
			test = append(test, hold[p])
		} else {
			val = append(val, hold[p])
		}
	}

	return &Split{
		Train: gather(x, y, train),
		Val:   gather(x, y, val),
		Test:  gather(x, y, test),
	}, nil
}

// KFold assigns n row indices to k folds round-robin over a seeded
// permutation. With n divisible by k every fold holds exactly n/k rows.
func KFold(n, k int, seed int64) [][]int {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	folds := make([][]int, k)
	for i, p := range perm {
		folds[i%k] = append(folds[i%k], p)
	}
	return folds
}

func gather(x [][]float64, y []float64, rows []int) Subset {
	s := Subset{
		X:    make([][]float64, len(rows)),
		Y:    make([]float64, len(rows)),
		Rows: make([]int, len(rows)),
	}
	for i, r := range rows {
		s.X[i] = x[r]
		s.Y[i] = y[r]
		s.Rows[i] = r
	}
	return s
}
