// Package preprocessing turns the normalized table into a numeric design
// matrix and labels for the engagement classifier.
package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/adengage/dataset"
	"github.com/ezoic/adengage/engagement"
	scigoErrors "github.com/ezoic/adengage/pkg/errors"
	"github.com/ezoic/adengage/pkg/log"
)

// Design is the classifier input derived from a normalized table.
type Design struct {
	// X is the one-hot device matrix without the reference column.
	X *mat.Dense
	// Y is 1 where engagement is High, otherwise 0.
	Y *mat.VecDense
	// FeatureNames names the columns of X, e.g. "Smartphone", "Tablet".
	FeatureNames []string
	// Reference is the device category encoded as all zeros.
	Reference string
	// Rows indexes the source table row of every sample.
	Rows []int
}

// Len returns the number of samples.
func (d *Design) Len() int {
	if d.Y == nil {
		return 0
	}
	return d.Y.Len()
}

// Positives returns how many samples are labelled 1.
func (d *Design) Positives() int {
	n := 0
	for i := 0; i < d.Len(); i++ {
		if d.Y.AtVec(i) == 1 {
			n++
		}
	}
	return n
}

// PrepareEngagement builds the design for predicting High engagement from the
// device used.
//
// Rows whose normalized engagement is missing are dropped entirely; they are
// never labelled 0. Device categories are one-hot encoded in lexicographic
// order and the first category is dropped as the reference. A missing device
// encodes as the reference row.
func PrepareEngagement(t *dataset.Table) (_ *Design, err error) {
	defer scigoErrors.Recover(&err, "preprocessing.PrepareEngagement")

	text, textMissing, err := t.Strings(dataset.EngagementColumn)
	if err != nil {
		return nil, err
	}
	devices, deviceMissing, err := t.Strings(dataset.DeviceColumn)
	if err != nil {
		return nil, err
	}

	var (
		rows    []int
		labels  []float64
		samples [][]string
		known   [][]string
	)
	for i := range text {
		if textMissing[i] {
			continue
		}
		rows = append(rows, i)
		if text[i] == engagement.High.String() {
			labels = append(labels, 1)
		} else {
			labels = append(labels, 0)
		}
		samples = append(samples, []string{devices[i]})
		if !deviceMissing[i] {
			known = append(known, []string{devices[i]})
		}
	}
	if len(rows) == 0 {
		return nil, scigoErrors.NewModelError("PrepareEngagement", "no rows with engagement", scigoErrors.ErrEmptyData)
	}
	if len(known) == 0 {
		return nil, scigoErrors.NewModelError("PrepareEngagement", "no rows with a device", scigoErrors.ErrEmptyData)
	}

	// fit on observed devices only so a missing device never becomes a category
	enc := NewOneHotEncoder(WithDropFirst())
	if err := enc.Fit(known); err != nil {
		return nil, err
	}
	X, err := enc.Transform(samples)
	if err != nil {
		return nil, err
	}

	d := &Design{
		X:            X,
		Y:            mat.NewVecDense(len(labels), labels),
		FeatureNames: enc.Categories[0][1:],
		Reference:    enc.ReferenceCategories()[0],
		Rows:         rows,
	}

	log.GetLoggerWithName("preprocessing").Info("Design prepared",
		log.OperationKey, log.OperationPrepare,
		log.SamplesKey, d.Len(),
		log.FeaturesKey, len(d.FeatureNames),
		"reference", d.Reference,
		"positives", d.Positives(),
	)
	return d, nil
}
