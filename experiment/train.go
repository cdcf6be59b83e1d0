// Package experiment trains and evaluates the High-engagement classifier on a
// prepared design.
package experiment

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/adengage/linear"
	"github.com/ezoic/adengage/metrics"
	scigoErrors "github.com/ezoic/adengage/pkg/errors"
	"github.com/ezoic/adengage/pkg/log"
	"github.com/ezoic/adengage/preprocessing"
	"github.com/ezoic/adengage/selection"
)

// Config controls the split and the classifier.
type Config struct {
	TestSize float64
	Seed     uint64
	MaxIter  int
	C        float64
}

// DefaultConfig returns an 80/20 split seeded with 42 and a classifier
// capped at 1000 iterations with C=1.
func DefaultConfig() Config {
	return Config{
		TestSize: selection.DefaultTestSize,
		Seed:     selection.DefaultSeed,
		MaxIter:  1000,
		C:        1.0,
	}
}

// Result holds the fitted model and its held-out evaluation.
type Result struct {
	Model        *linear.LogisticRegression
	FeatureNames []string
	Reference    string

	Accuracy  float64
	Confusion metrics.Confusion
	Precision float64
	Recall    float64
	F1        float64
	AUC       float64

	TrainSize   int
	TestSize    int
	ClassCounts map[int]int
}

// Coefficients pairs every feature name with its fitted weight.
func (r *Result) Coefficients() map[string]float64 {
	coef := r.Model.Coef()
	out := make(map[string]float64, len(coef))
	for i, name := range r.FeatureNames {
		if i < len(coef) {
			out[name] = coef[i]
		}
	}
	return out
}

func classCounts(y mat.Vector) map[int]int {
	counts := map[int]int{0: 0, 1: 0}
	for i := 0; i < y.Len(); i++ {
		counts[int(y.AtVec(i))]++
	}
	return counts
}

// Train splits the design, fits a logistic regression on the training part
// and scores it on the test part.
//
// Degenerate input is returned as *errors.TrainingError: fewer than two
// samples, a split leaving either side empty, or a training partition with a
// single class.
func Train(d *preprocessing.Design, cfg Config) (_ *Result, err error) {
	defer scigoErrors.Recover(&err, "experiment.Train")
	start := time.Now()
	logger := log.GetLoggerWithName("experiment")

	if d == nil || d.Len() < 2 {
		n := 0
		var counts map[int]int
		if d != nil && d.Y != nil {
			n = d.Len()
			counts = classCounts(d.Y)
		}
		return nil, scigoErrors.NewTrainingError("fewer than two labelled rows", n, 0, counts, scigoErrors.ErrEmptyData)
	}
	counts := classCounts(d.Y)

	split, err := selection.TrainTestSplit(d.X, d.Y, cfg.TestSize, cfg.Seed)
	if err != nil {
		nTest := selection.TestCount(d.Len(), cfg.TestSize)
		return nil, scigoErrors.NewTrainingError("cannot split", d.Len()-nTest, nTest, counts, err)
	}
	nTrain, nTest := split.YTrain.Len(), split.YTest.Len()

	trainCounts := classCounts(split.YTrain)
	if trainCounts[0] == 0 || trainCounts[1] == 0 {
		return nil, scigoErrors.NewTrainingError("training partition has a single class",
			nTrain, nTest, counts, scigoErrors.ErrSingleClass)
	}

	clf := linear.NewLogisticRegression(
		linear.WithMaxIter(cfg.MaxIter),
		linear.WithC(cfg.C),
	)
	if err := clf.Fit(split.XTrain, split.YTrain); err != nil {
		return nil, scigoErrors.NewTrainingError("fit failed", nTrain, nTest, counts, err)
	}

	pred, err := clf.Predict(split.XTest)
	if err != nil {
		return nil, scigoErrors.NewTrainingError("predict failed", nTrain, nTest, counts, err)
	}
	proba, err := clf.PredictProba(split.XTest)
	if err != nil {
		return nil, scigoErrors.NewTrainingError("predict failed", nTrain, nTest, counts, err)
	}

	res := &Result{
		Model:        clf,
		FeatureNames: append([]string(nil), d.FeatureNames...),
		Reference:    d.Reference,
		TrainSize:    nTrain,
		TestSize:     nTest,
		ClassCounts:  counts,
	}
	if res.Accuracy, err = metrics.Accuracy(split.YTest, pred); err != nil {
		return nil, err
	}
	if res.Confusion, err = metrics.ConfusionMatrix(split.YTest, pred); err != nil {
		return nil, err
	}
	res.Precision, res.Recall, res.F1 = res.Confusion.Precision(), res.Confusion.Recall(), res.Confusion.F1()
	if res.AUC, err = metrics.AUC(split.YTest, mat.VecDenseCopyOf(proba.ColView(1))); err != nil {
		return nil, err
	}

	logger.Info("Classifier evaluated",
		log.OperationKey, log.OperationEvaluate,
		log.PhaseKey, log.PhaseEvaluation,
		log.SeedKey, cfg.Seed,
		"train", nTrain,
		"test", nTest,
		log.AccuracyKey, res.Accuracy,
		log.IterationsKey, clf.NIter(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, nil
}
