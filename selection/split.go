// Package selection splits a design into reproducible train and test sets.
package selection

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	scigoErrors "github.com/ezoic/adengage/pkg/errors"
	"github.com/ezoic/adengage/pkg/log"
)

// DefaultTestSize is the fraction of samples held out for evaluation.
const DefaultTestSize = 0.2

// DefaultSeed seeds the shuffle when none is configured.
const DefaultSeed uint64 = 42

// Split holds one train/test partition. TrainIdx and TestIdx index rows of
// the input matrix.
type Split struct {
	XTrain, XTest *mat.Dense
	YTrain, YTest *mat.VecDense

	TrainIdx []int
	TestIdx  []int
}

// Permutation returns a seeded permutation of 0..n-1. The same seed always
// yields the same order.
func Permutation(n int, seed uint64) []int {
	rng := rand.New(rand.NewPCG(seed, seed))
	return rng.Perm(n)
}

// TestCount returns how many of n samples go to the test set,
// ceil(testSize*n).
func TestCount(n int, testSize float64) int {
	return int(math.Ceil(testSize * float64(n)))
}

// TrainTestSplit shuffles the rows of X and y with seed and holds out
// ceil(testSize*n) of them for testing. Both sides must be non-empty.
func TrainTestSplit(X *mat.Dense, y *mat.VecDense, testSize float64, seed uint64) (_ *Split, err error) {
	defer scigoErrors.Recover(&err, "selection.TrainTestSplit")

	if testSize <= 0 || testSize >= 1 {
		return nil, scigoErrors.NewValidationError("testSize", "must be in (0, 1)", testSize)
	}
	if X == nil || y == nil {
		return nil, scigoErrors.NewModelError("TrainTestSplit", "nil input", scigoErrors.ErrEmptyData)
	}

	n, cols := X.Dims()
	if y.Len() != n {
		return nil, scigoErrors.NewDimensionError("TrainTestSplit", n, y.Len(), 0)
	}

	nTest := TestCount(n, testSize)
	nTrain := n - nTest
	if nTest == 0 || nTrain <= 0 {
		return nil, scigoErrors.NewValueError("TrainTestSplit",
			fmt.Sprintf("too few samples to split: n=%d, test=%d", n, nTest))
	}

	perm := Permutation(n, seed)
	s := &Split{
		XTrain:   mat.NewDense(nTrain, cols, nil),
		XTest:    mat.NewDense(nTest, cols, nil),
		YTrain:   mat.NewVecDense(nTrain, nil),
		YTest:    mat.NewVecDense(nTest, nil),
		TestIdx:  append([]int(nil), perm[:nTest]...),
		TrainIdx: append([]int(nil), perm[nTest:]...),
	}
	for i, src := range s.TestIdx {
		s.XTest.SetRow(i, X.RawRowView(src))
		s.YTest.SetVec(i, y.AtVec(src))
	}
	for i, src := range s.TrainIdx {
		s.XTrain.SetRow(i, X.RawRowView(src))
		s.YTrain.SetVec(i, y.AtVec(src))
	}

	log.GetLoggerWithName("selection").Debug("Split prepared",
		log.OperationKey, log.OperationSplit,
		log.SamplesKey, n,
		log.SeedKey, seed,
		"train", nTrain,
		"test", nTest,
	)
	return s, nil
}
