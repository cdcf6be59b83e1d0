package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/adengage/core/model"
	scigoErrors "github.com/ezoic/adengage/pkg/errors"
)

// OneHotEncoder turns categorical string columns into 0/1 indicator columns.
// Categories of each input feature are sorted lexicographically.
type OneHotEncoder struct {
	state *model.StateManager

	// dropFirst drops the first sorted category of every feature.
	dropFirst bool

	// Categories holds the sorted categories of each input feature.
	Categories [][]string

	// CategoryToIdx maps a category to its index in Categories, per feature.
	CategoryToIdx []map[string]int

	// NFeatures is the number of input features.
	NFeatures int

	// NOutputs is the number of output columns.
	NOutputs int
}

// OneHotOption configures a OneHotEncoder.
type OneHotOption func(*OneHotEncoder)

// WithDropFirst drops the lexicographically first category of every feature,
// which becomes the reference level absorbed by a model intercept.
func WithDropFirst() OneHotOption {
	return func(e *OneHotEncoder) {
		e.dropFirst = true
	}
}

// NewOneHotEncoder creates a new OneHotEncoder.
//
// Example:
//
//	encoder := preprocessing.NewOneHotEncoder(preprocessing.WithDropFirst())
//	encoded, err := encoder.FitTransform(data)
func NewOneHotEncoder(opts ...OneHotOption) *OneHotEncoder {
	e := &OneHotEncoder{state: model.NewStateManager()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsFitted reports whether Fit has been called.
func (e *OneHotEncoder) IsFitted() bool {
	return e.state.IsFitted()
}

// DropFirst reports whether the encoder drops a reference category.
func (e *OneHotEncoder) DropFirst() bool {
	return e.dropFirst
}

func (e *OneHotEncoder) kept(feature int) int {
	n := len(e.Categories[feature])
	if e.dropFirst && n > 0 {
		return n - 1
	}
	return n
}

// Fit learns the categories of each feature from data (n_samples x n_features).
func (e *OneHotEncoder) Fit(data [][]string) (err error) {
	defer scigoErrors.Recover(&err, "OneHotEncoder.Fit")
	if len(data) == 0 {
		return scigoErrors.NewModelError("OneHotEncoder.Fit", "empty data", scigoErrors.ErrEmptyData)
	}

	if len(data[0]) == 0 {
		return scigoErrors.NewModelError("OneHotEncoder.Fit", "empty features", scigoErrors.ErrEmptyData)
	}

	nFeatures := len(data[0])
	for i, row := range data {
		if len(row) != nFeatures {
			return scigoErrors.NewDimensionError("OneHotEncoder.Fit", nFeatures, len(row), i)
		}
	}

	e.NFeatures = nFeatures
	e.Categories = make([][]string, nFeatures)
	e.CategoryToIdx = make([]map[string]int, nFeatures)

	for j := 0; j < nFeatures; j++ {
		set := make(map[string]bool)
		for _, row := range data {
			set[row[j]] = true
		}

		categories := make([]string, 0, len(set))
		for c := range set {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		e.Categories[j] = categories

		idx := make(map[string]int, len(categories))
		for k, c := range categories {
			idx[c] = k
		}
		e.CategoryToIdx[j] = idx
	}

	e.NOutputs = 0
	for j := range e.Categories {
		e.NOutputs += e.kept(j)
	}

	e.state.SetFitted()
	e.state.SetDimensions(nFeatures, len(data))
	return nil
}

// Transform encodes data with the learned categories. Unknown categories and
// the dropped reference category encode as all zeros.
func (e *OneHotEncoder) Transform(data [][]string) (_ *mat.Dense, err error) {
	defer scigoErrors.Recover(&err, "OneHotEncoder.Transform")
	if !e.IsFitted() {
		return nil, scigoErrors.NewNotFittedError("OneHotEncoder", "Transform")
	}

	if len(data) == 0 {
		return nil, scigoErrors.NewModelError("OneHotEncoder.Transform", "empty data", scigoErrors.ErrEmptyData)
	}
	if e.NOutputs == 0 {
		return nil, scigoErrors.NewValueError("OneHotEncoder.Transform", "no output columns: every feature has a single category")
	}

	nSamples := len(data)
	result := mat.NewDense(nSamples, e.NOutputs, nil)

	for i, row := range data {
		if len(row) != e.NFeatures {
			return nil, scigoErrors.NewDimensionError("OneHotEncoder.Transform", e.NFeatures, len(row), 1)
		}
		offset := 0
		for j, category := range row {
			if idx, ok := e.CategoryToIdx[j][category]; ok {
				if e.dropFirst {
					idx--
				}
				if idx >= 0 {
					result.Set(i, offset+idx, 1.0)
				}
			}
			offset += e.kept(j)
		}
	}

	return result, nil
}

// FitTransform fits the encoder on data and encodes it.
func (e *OneHotEncoder) FitTransform(data [][]string) (_ *mat.Dense, err error) {
	defer scigoErrors.Recover(&err, "OneHotEncoder.FitTransform")
	if err := e.Fit(data); err != nil {
		return nil, err
	}
	return e.Transform(data)
}

// GetFeatureNamesOut returns the output column names, "<feature>_<category>".
// Input names default to x0, x1, ... when inputFeatures is nil.
func (e *OneHotEncoder) GetFeatureNamesOut(inputFeatures []string) []string {
	if !e.IsFitted() {
		return nil
	}

	var out []string
	for i, categories := range e.Categories {
		name := fmt.Sprintf("x%d", i)
		if i < len(inputFeatures) {
			name = inputFeatures[i]
		}
		start := 0
		if e.dropFirst {
			start = 1
		}
		for _, c := range categories[start:] {
			out = append(out, fmt.Sprintf("%s_%s", name, c))
		}
	}
	return out
}

// ReferenceCategories returns the dropped category of each feature, or nil
// when the encoder keeps every category.
func (e *OneHotEncoder) ReferenceCategories() []string {
	if !e.IsFitted() || !e.dropFirst {
		return nil
	}
	refs := make([]string, len(e.Categories))
	for i, categories := range e.Categories {
		refs[i] = categories[0]
	}
	return refs
}

var _ model.CategoricalTransformer = (*OneHotEncoder)(nil)
