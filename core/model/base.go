// Package model provides the estimator abstractions shared by adengage's
// preprocessing and classification code.
//
// Estimators keep their fitted state in a StateManager (composition rather than
// embedding) so that the state can be inspected and reset uniformly:
//
//	type MyModel struct {
//		state *model.StateManager
//	}
//
//	func (m *MyModel) Fit(X mat.Matrix, y mat.Vector) error {
//		// training logic
//		m.state.SetFitted()
//		m.state.SetDimensions(nFeatures, nSamples)
//		return nil
//	}
package model

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// EstimatorState represents the learning state of a model.
type EstimatorState int

const (
	// NotFitted indicates the model is not yet trained.
	NotFitted EstimatorState = iota
	// Fitted indicates the model has been trained.
	Fitted
)

func (s EstimatorState) String() string {
	if s == Fitted {
		return "fitted"
	}
	return "not fitted"
}

// StateManager tracks whether an estimator is fitted and the shape it was fitted on.
// It is safe for concurrent use.
type StateManager struct {
	mu        sync.RWMutex
	state     EstimatorState
	nFeatures int
	nSamples  int
}

// NewStateManager returns a StateManager in the NotFitted state.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted reports whether SetFitted has been called since the last Reset.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == Fitted
}

// SetFitted marks the estimator as trained.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Fitted
}

// SetDimensions records the training shape.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// Dimensions returns the recorded training shape.
func (s *StateManager) Dimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// State returns the current EstimatorState.
func (s *StateManager) State() EstimatorState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Reset returns the estimator to its initial untrained state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = NotFitted
	s.nFeatures = 0
	s.nSamples = 0
}

// Classifier is a supervised estimator predicting discrete labels.
type Classifier interface {
	Fit(X mat.Matrix, y mat.Vector) error
	Predict(X mat.Matrix) (*mat.VecDense, error)
	IsFitted() bool
}

// ProbabilisticClassifier additionally returns class probabilities,
// one column per class in ascending label order.
type ProbabilisticClassifier interface {
	Classifier
	PredictProba(X mat.Matrix) (*mat.Dense, error)
}

// CategoricalTransformer maps string-valued samples to numeric features.
type CategoricalTransformer interface {
	Fit(data [][]string) error
	Transform(data [][]string) (*mat.Dense, error)
	GetFeatureNamesOut(inputFeatures []string) []string
}
