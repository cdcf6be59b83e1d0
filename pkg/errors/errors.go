// Package errors provides the error taxonomy used across adengage.
//
// It builds on github.com/cockroachdb/errors so that every error carries a stack
// trace (printed with %+v) while staying compatible with the standard library's
// errors.Is / errors.As.
//
// The taxonomy has two layers:
//
//   - Generic estimator errors: ValueError, DimensionError, NotFittedError,
//     ModelError, ValidationError and ConvergenceWarning.
//   - Pipeline stage errors: LoadError, MappingError, RenderError and TrainingError.
//
// Load and render failures are fatal for a run. Mapping errors are collected and
// reported without stopping the run. Training errors describe degenerate input
// (class counts, split sizes) so that callers can report them instead of crashing.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Prefix is prepended to messages produced by ModelError.
const Prefix = "adengage"

// Sentinel errors.
var (
	// ErrEmptyData is returned when an operation receives no rows.
	ErrEmptyData = errors.New("empty data")
	// ErrNotImplemented marks functionality that is not available.
	ErrNotImplemented = errors.New("not implemented")
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrSingleClass is returned when training labels contain only one class.
	ErrSingleClass = errors.New("only one class present")
	// ErrUnknownLevel is returned for engagement text outside the fixed enumeration.
	ErrUnknownLevel = errors.New("unknown engagement level")
)

// Re-exported helpers so callers only need one errors import.
var (
	New    = errors.New
	Newf   = errors.Newf
	Wrap   = errors.Wrap
	Wrapf  = errors.Wrapf
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// ValueError reports an invalid argument value.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError for the given operation.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// DimensionError reports mismatched dimensions. Axis 0 is rows, 1 is columns.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

func (e *DimensionError) Error() string {
	axis := "rows"
	if e.Axis == 1 {
		axis = "columns"
	}
	return fmt.Sprintf("%s: dimension mismatch on %s: expected %d, got %d", e.Op, axis, e.Expected, e.Got)
}

// NotFittedError is returned when an estimator is used before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError.
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: this instance is not fitted yet; call Fit before %s", e.ModelName, e.Method)
}

// ModelError wraps an underlying cause with the failing operation.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

// NewModelError creates a ModelError.
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %v", Prefix, e.Op, e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// ValidationError reports a parameter that failed validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

// NewValidationError creates a ValidationError.
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.ParamName, e.Value, e.Reason)
}

// ConvergenceWarning is emitted when an optimiser stops before converging.
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

// NewConvergenceWarning creates a ConvergenceWarning.
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

func (w *ConvergenceWarning) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
}

// LoadError is returned when the input table cannot be read.
type LoadError struct {
	Path string
	Err  error
}

// NewLoadError creates a LoadError for path.
func NewLoadError(path string, err error) error {
	return errors.WithStack(&LoadError{Path: path, Err: err})
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// MappingError records an engagement value outside the fixed enumeration.
// It is never fatal: the affected row is treated as missing.
type MappingError struct {
	Row   int
	Value string
}

// NewMappingError creates a MappingError for the given row index and raw value.
func NewMappingError(row int, value string) *MappingError {
	return &MappingError{Row: row, Value: value}
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("row %d: %q is not a known engagement level", e.Row, e.Value)
}

func (e *MappingError) Unwrap() error { return ErrUnknownLevel }

// RenderError is returned when a chart cannot be written.
type RenderError struct {
	Path string
	Err  error
}

// NewRenderError creates a RenderError for path.
func NewRenderError(path string, err error) error {
	return errors.WithStack(&RenderError{Path: path, Err: err})
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %q: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// TrainingError describes degenerate classifier input.
type TrainingError struct {
	Reason      string
	TrainSize   int
	TestSize    int
	ClassCounts map[int]int
	Err         error
}

// NewTrainingError creates a TrainingError with split and class diagnostics.
func NewTrainingError(reason string, trainSize, testSize int, classCounts map[int]int, err error) error {
	return errors.WithStack(&TrainingError{
		Reason:      reason,
		TrainSize:   trainSize,
		TestSize:    testSize,
		ClassCounts: classCounts,
		Err:         err,
	})
}

func (e *TrainingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "training: %s (train=%d, test=%d", e.Reason, e.TrainSize, e.TestSize)
	if len(e.ClassCounts) > 0 {
		classes := make([]int, 0, len(e.ClassCounts))
		for c := range e.ClassCounts {
			classes = append(classes, c)
		}
		sort.Ints(classes)
		b.WriteString(", classes=")
		for i, c := range classes {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%d:%d", c, e.ClassCounts[c])
		}
	}
	b.WriteString(")")
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TrainingError) Unwrap() error { return e.Err }
