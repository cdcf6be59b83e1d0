// Package metrics scores binary classifiers on held-out labels.
package metrics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	scigoErrors "github.com/ezoic/adengage/pkg/errors"
)

const probEpsilon = 1e-15

// validatePair checks that both vectors are present, non-empty and of equal
// length, and returns that length.
func validatePair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, scigoErrors.NewValueError(op, "input vectors cannot be nil")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, scigoErrors.NewValueError(op, "input vectors cannot be empty")
	}
	if n != yPred.Len() {
		return 0, scigoErrors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

func validateBinary(v *mat.VecDense) error {
	for i := 0; i < v.Len(); i++ {
		if y := v.AtVec(i); y != 0 && y != 1 {
			return scigoErrors.NewValidationError(
				"yTrue",
				fmt.Sprintf("must contain only binary values (0 or 1), found %f at index %d", y, i),
				y,
			)
		}
	}
	return nil
}

// ClassificationError returns the fraction of predictions that differ from
// the true labels.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("ClassificationError", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	wrong := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) != yPred.AtVec(i) {
			wrong++
		}
	}
	return float64(wrong) / float64(n), nil
}

// Accuracy returns the fraction of correct predictions.
//
// Example:
//
//	yTrue := mat.NewVecDense(5, []float64{0, 1, 1, 0, 1})
//	yPred := mat.NewVecDense(5, []float64{0, 1, 0, 0, 1})
//	acc, _ := metrics.Accuracy(yTrue, yPred) // 0.8
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	errorRate, err := ClassificationError(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1.0 - errorRate, nil
}

// Confusion counts binary outcomes with 1 as the positive class.
type Confusion struct {
	TP int `yaml:"tp" json:"tp"`
	FP int `yaml:"fp" json:"fp"`
	TN int `yaml:"tn" json:"tn"`
	FN int `yaml:"fn" json:"fn"`
}

// Total returns the number of samples counted.
func (c Confusion) Total() int { return c.TP + c.FP + c.TN + c.FN }

// Precision is TP/(TP+FP), or 0 when nothing was predicted positive.
func (c Confusion) Precision() float64 {
	if c.TP+c.FP == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FP)
}

// Recall is TP/(TP+FN), or 0 when there are no positives.
func (c Confusion) Recall() float64 {
	if c.TP+c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

// F1 is the harmonic mean of precision and recall.
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func (c Confusion) String() string {
	return fmt.Sprintf("[[TN=%d FP=%d] [FN=%d TP=%d]]", c.TN, c.FP, c.FN, c.TP)
}

// ConfusionMatrix counts true and false positives and negatives for binary
// labels.
func ConfusionMatrix(yTrue, yPred *mat.VecDense) (Confusion, error) {
	n, err := validatePair("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return Confusion{}, err
	}
	if err := validateBinary(yTrue); err != nil {
		return Confusion{}, err
	}

	var c Confusion
	for i := 0; i < n; i++ {
		actual, predicted := yTrue.AtVec(i) == 1, yPred.AtVec(i) == 1
		switch {
		case actual && predicted:
			c.TP++
		case !actual && predicted:
			c.FP++
		case actual && !predicted:
			c.FN++
		default:
			c.TN++
		}
	}
	return c, nil
}

// PrecisionRecallF1 is a shortcut over ConfusionMatrix.
func PrecisionRecallF1(yTrue, yPred *mat.VecDense) (precision, recall, f1 float64, err error) {
	c, err := ConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, 0, 0, err
	}
	return c.Precision(), c.Recall(), c.F1(), nil
}

// AUC returns the area under the ROC curve of scores yPred against binary
// labels yTrue. Tied scores contribute a single ROC point. When only one
// class is present the curve is undefined and 0.5 is returned.
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("AUC", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if err := validateBinary(yTrue); err != nil {
		return 0, err
	}

	type pair struct {
		score float64
		label float64
	}
	pairs := make([]pair, n)
	var totalPos, totalNeg float64
	for i := 0; i < n; i++ {
		pairs[i] = pair{score: yPred.AtVec(i), label: yTrue.AtVec(i)}
		if pairs[i].label == 1 {
			totalPos++
		} else {
			totalNeg++
		}
	}
	if totalPos == 0 || totalNeg == 0 {
		return 0.5, nil
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].score > pairs[j].score
	})

	// walk thresholds from high to low, integrating with the trapezoid rule
	var auc, tp, fp, prevTPR, prevFPR float64
	for i, p := range pairs {
		if p.label == 1 {
			tp++
		} else {
			fp++
		}
		if i+1 < n && pairs[i+1].score == p.score {
			continue
		}
		tpr, fpr := tp/totalPos, fp/totalNeg
		auc += (fpr - prevFPR) * (tpr + prevTPR) / 2
		prevTPR, prevFPR = tpr, fpr
	}
	return auc, nil
}

// BinaryLogLoss returns the mean cross-entropy of probabilities yPred
// against binary labels yTrue. Probabilities are clipped away from 0 and 1.
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("BinaryLogLoss", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if err := validateBinary(yTrue); err != nil {
		return 0, err
	}

	loss := 0.0
	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yPred.AtVec(i), probEpsilon), 1-probEpsilon)
		if yTrue.AtVec(i) == 1 {
			loss -= math.Log(p)
		} else {
			loss -= math.Log(1 - p)
		}
	}
	return loss / float64(n), nil
}
