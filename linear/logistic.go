// Package linear provides linear classifiers over gonum matrices.
//
// LogisticRegression fits a binary L2-regularised logistic model with the
// L-BFGS solver from gonum/optimize. The objective matches the usual
// C-parameterised form
//
//	C * sum(logloss_i) + 0.5 * ||w||^2
//
// scaled by 1/(C*n) so that the optimiser works on the mean log-loss. The
// intercept is never penalised.
//
// Example usage:
//
//	clf := linear.NewLogisticRegression(linear.WithMaxIter(1000))
//	if err := clf.Fit(XTrain, yTrain); err != nil {
//		return err
//	}
//	pred, err := clf.Predict(XTest)
package linear

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/ezoic/adengage/core/model"
	"github.com/ezoic/adengage/metrics"
	scigoErrors "github.com/ezoic/adengage/pkg/errors"
	"github.com/ezoic/adengage/pkg/log"
)

const (
	// PenaltyL2 adds 0.5*||w||^2/(C*n) to the mean log-loss.
	PenaltyL2 = "l2"
	// PenaltyNone fits the unregularised model.
	PenaltyNone = "none"

	binaryClassCount = 2
	epsilonSmall     = 1e-15
)

// LogisticRegression is a binary logistic regression classifier.
type LogisticRegression struct {
	state *model.StateManager

	penalty      string
	C            float64
	fitIntercept bool
	maxIter      int
	tol          float64

	coef      []float64
	intercept float64
	classes   []float64
	nIter     int
	converged bool
}

// LogisticRegressionOption is a functional option for LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// WithC sets the inverse regularisation strength. Must be > 0 with PenaltyL2.
func WithC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithPenalty selects PenaltyL2 or PenaltyNone.
func WithPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithFitIntercept sets whether an intercept is fitted.
func WithFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithMaxIter caps the number of L-BFGS major iterations.
func WithMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithTol sets the gradient-norm stopping threshold.
func WithTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// NewLogisticRegression creates an unfitted classifier with C=1, an L2
// penalty, an intercept, 1000 iterations and tol=1e-4.
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      PenaltyL2,
		C:            1.0,
		fitIntercept: true,
		maxIter:      1000,
		tol:          1e-4,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// stableSigmoid computes sigmoid(z) without overflowing for large |z|.
func stableSigmoid(z float64) float64 {
	if z >= 0 {
		ez := math.Exp(-z)
		return 1.0 / (1.0 + ez)
	}
	ez := math.Exp(z)
	return ez / (1.0 + ez)
}

// clampProbability keeps p away from 0 and 1 so log(p) stays finite.
func clampProbability(p float64) float64 {
	if p < epsilonSmall {
		return epsilonSmall
	}
	if p > 1-epsilonSmall {
		return 1 - epsilonSmall
	}
	return p
}

func (lr *LogisticRegression) validateParams() error {
	switch lr.penalty {
	case PenaltyL2:
		if lr.C <= 0 || math.IsNaN(lr.C) {
			return scigoErrors.NewValidationError("C", "must be > 0 for l2 penalty", lr.C)
		}
	case PenaltyNone:
	default:
		return scigoErrors.NewValidationError("penalty", "must be \"l2\" or \"none\"", lr.penalty)
	}
	if lr.maxIter <= 0 {
		return scigoErrors.NewValidationError("maxIter", "must be positive", lr.maxIter)
	}
	if lr.tol <= 0 {
		return scigoErrors.NewValidationError("tol", "must be positive", lr.tol)
	}
	return nil
}

// extractClasses returns the sorted distinct labels of y.
func extractClasses(y mat.Vector) []float64 {
	seen := make(map[float64]bool)
	var classes []float64
	for i := 0; i < y.Len(); i++ {
		v := y.AtVec(i)
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Float64s(classes)
	return classes
}

// Fit trains the model on X (n_samples x n_features) and labels y. y must
// hold exactly two distinct values; the larger one is the positive class.
//
// When L-BFGS stops without meeting its convergence criteria the last
// iterate is kept and a *errors.ConvergenceWarning is emitted through
// errors.Warn.
func (lr *LogisticRegression) Fit(X mat.Matrix, y mat.Vector) (err error) {
	defer scigoErrors.Recover(&err, "LogisticRegression.Fit")

	if err := lr.validateParams(); err != nil {
		return err
	}

	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return scigoErrors.NewModelError("LogisticRegression.Fit", "empty input", scigoErrors.ErrEmptyData)
	}
	if y.Len() != nSamples {
		return scigoErrors.NewDimensionError("LogisticRegression.Fit", nSamples, y.Len(), 0)
	}

	classes := extractClasses(y)
	switch {
	case len(classes) < binaryClassCount:
		return scigoErrors.NewModelError("LogisticRegression.Fit",
			fmt.Sprintf("need 2 classes, got %v", classes), scigoErrors.ErrSingleClass)
	case len(classes) > binaryClassCount:
		return scigoErrors.NewValueError("LogisticRegression.Fit",
			fmt.Sprintf("binary classifier got %d classes", len(classes)))
	}

	yBinary := make([]float64, nSamples)
	for i := range yBinary {
		if y.AtVec(i) == classes[1] {
			yBinary[i] = 1
		}
	}

	theta, iters, converged, err := lr.fitLBFGS(mat.DenseCopyOf(X), yBinary)
	if err != nil {
		return err
	}

	lr.classes = classes
	lr.coef = theta[:nFeatures]
	lr.intercept = 0
	if lr.fitIntercept {
		lr.intercept = theta[nFeatures]
	}
	lr.nIter = iters
	lr.converged = converged
	lr.state.SetFitted()
	lr.state.SetDimensions(nFeatures, nSamples)

	log.GetLoggerWithName("linear").Debug("Logistic regression fitted",
		log.OperationKey, log.OperationFit,
		log.ModelNameKey, "LogisticRegression",
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.IterationsKey, iters,
		"converged", converged,
	)
	return nil
}

// fitLBFGS minimises the regularised mean log-loss. theta is laid out as
// [w_0..w_{d-1}, b] when an intercept is fitted.
func (lr *LogisticRegression) fitLBFGS(xD *mat.Dense, y []float64) (theta []float64, iters int, converged bool, err error) {
	nSamples, nFeatures := xD.Dims()

	pDim := nFeatures
	if lr.fitIntercept {
		pDim++
	}

	lambda := 0.0
	if lr.penalty == PenaltyL2 {
		lambda = 1.0 / (lr.C * float64(nSamples))
	}

	z := mat.NewVecDense(nSamples, nil)
	forward := func(theta []float64) {
		w := mat.NewVecDense(nFeatures, theta[:nFeatures])
		z.MulVec(xD, w)
		if lr.fitIntercept {
			b := theta[nFeatures]
			for i := 0; i < nSamples; i++ {
				z.SetVec(i, z.AtVec(i)+b)
			}
		}
	}

	prob := optimize.Problem{
		Func: func(theta []float64) float64 {
			forward(theta)
			loss := 0.0
			for i := 0; i < nSamples; i++ {
				p := clampProbability(stableSigmoid(z.AtVec(i)))
				loss += -y[i]*math.Log(p) - (1.0-y[i])*math.Log(1.0-p)
			}
			loss /= float64(nSamples)
			if lambda > 0 {
				w := theta[:nFeatures]
				loss += 0.5 * lambda * floats.Dot(w, w)
			}
			return loss
		},
		Grad: func(grad, theta []float64) {
			forward(theta)
			diff := mat.NewVecDense(nSamples, nil)
			for i := 0; i < nSamples; i++ {
				diff.SetVec(i, stableSigmoid(z.AtVec(i))-y[i])
			}

			// dL/dw = X^T (p - y) / n
			gw := mat.NewVecDense(nFeatures, grad[:nFeatures])
			gw.MulVec(xD.T(), diff)
			gw.ScaleVec(1/float64(nSamples), gw)
			if lambda > 0 {
				floats.AddScaled(grad[:nFeatures], lambda, theta[:nFeatures])
			}
			if lr.fitIntercept {
				grad[nFeatures] = mat.Sum(diff) / float64(nSamples)
			}
		},
	}

	settings := optimize.Settings{
		GradientThreshold: lr.tol,
		MajorIterations:   lr.maxIter,
	}
	result, err := optimize.Minimize(prob, make([]float64, pDim), &settings, &optimize.LBFGS{})
	if result == nil || !floatsFinite(result.X) {
		if err == nil {
			err = scigoErrors.New("optimizer returned no usable solution")
		}
		return nil, 0, false, scigoErrors.NewModelError("LogisticRegression.Fit", "lbfgs optimization failed", err)
	}

	iters = result.Stats.MajorIterations
	if err == nil && (result.Status == optimize.IterationLimit || result.Status == optimize.Failure) {
		err = scigoErrors.Newf("%v", result.Status)
	}
	if err != nil {
		scigoErrors.Warn(scigoErrors.NewConvergenceWarning("lbfgs", iters,
			fmt.Sprintf("stopped with status %v: %v", result.Status, err)))
		return result.X, iters, false, nil
	}
	return result.X, iters, true, nil
}

func floatsFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return len(v) > 0
}

func (lr *LogisticRegression) checkInput(op string, X mat.Matrix) error {
	if !lr.state.IsFitted() {
		return scigoErrors.NewNotFittedError("LogisticRegression", op)
	}
	_, nFeatures := X.Dims()
	if nFeatures != len(lr.coef) {
		return scigoErrors.NewDimensionError("LogisticRegression."+op, len(lr.coef), nFeatures, 1)
	}
	return nil
}

// DecisionFunction returns the linear score w·x + b of every sample.
func (lr *LogisticRegression) DecisionFunction(X mat.Matrix) (_ *mat.VecDense, err error) {
	defer scigoErrors.Recover(&err, "LogisticRegression.DecisionFunction")
	if err := lr.checkInput("DecisionFunction", X); err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	scores := mat.NewVecDense(nSamples, nil)
	scores.MulVec(X, mat.NewVecDense(len(lr.coef), lr.coef))
	for i := 0; i < nSamples; i++ {
		scores.SetVec(i, scores.AtVec(i)+lr.intercept)
	}
	return scores, nil
}

// PredictProba returns an n x 2 matrix of class probabilities in ascending
// label order.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (_ *mat.Dense, err error) {
	defer scigoErrors.Recover(&err, "LogisticRegression.PredictProba")
	scores, err := lr.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	n := scores.Len()
	proba := mat.NewDense(n, binaryClassCount, nil)
	for i := 0; i < n; i++ {
		p := stableSigmoid(scores.AtVec(i))
		proba.Set(i, 0, 1-p)
		proba.Set(i, 1, p)
	}
	return proba, nil
}

// Predict returns the predicted class label of every sample. A sample is
// assigned the positive class when its probability exceeds 0.5.
func (lr *LogisticRegression) Predict(X mat.Matrix) (_ *mat.VecDense, err error) {
	defer scigoErrors.Recover(&err, "LogisticRegression.Predict")
	scores, err := lr.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	pred := mat.NewVecDense(scores.Len(), nil)
	for i := 0; i < scores.Len(); i++ {
		if scores.AtVec(i) > 0 {
			pred.SetVec(i, lr.classes[1])
		} else {
			pred.SetVec(i, lr.classes[0])
		}
	}
	return pred, nil
}

// Score returns the accuracy of Predict(X) against y.
func (lr *LogisticRegression) Score(X mat.Matrix, y mat.Vector) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	yTrue := mat.VecDenseCopyOf(y)
	return metrics.Accuracy(yTrue, pred)
}

// IsFitted reports whether Fit has completed.
func (lr *LogisticRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// Coef returns a copy of the fitted weights, one per feature.
func (lr *LogisticRegression) Coef() []float64 {
	return append([]float64(nil), lr.coef...)
}

// Intercept returns the fitted intercept, 0 when none is fitted.
func (lr *LogisticRegression) Intercept() float64 {
	return lr.intercept
}

// Classes returns the sorted class labels seen by Fit.
func (lr *LogisticRegression) Classes() []float64 {
	return append([]float64(nil), lr.classes...)
}

// NIter returns the number of L-BFGS major iterations of the last fit.
func (lr *LogisticRegression) NIter() int {
	return lr.nIter
}

// Converged reports whether the last fit met its stopping criteria.
func (lr *LogisticRegression) Converged() bool {
	return lr.converged
}

// GetParams returns the hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.C,
		"fit_intercept": lr.fitIntercept,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
	}
}

var _ model.ProbabilisticClassifier = (*LogisticRegression)(nil)
