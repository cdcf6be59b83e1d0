package experiment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/adengage/experiment"
	scigoErrors "github.com/ezoic/adengage/pkg/errors"
	"github.com/ezoic/adengage/preprocessing"
)

// indicatorDesign labels every row with the feature set as positive.
func indicatorDesign(n int) *preprocessing.Design {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewVecDense(n, nil)
	rows := make([]int, n)
	for i := 0; i < n; i++ {
		rows[i] = i
		if i%2 == 0 {
			X.Set(i, 0, 1)
			y.SetVec(i, 1)
		} else if i%3 == 0 {
			X.Set(i, 1, 1)
		}
	}
	return &preprocessing.Design{
		X:            X,
		Y:            y,
		FeatureNames: []string{"Smartphone", "Tablet"},
		Reference:    "Desktop",
		Rows:         rows,
	}
}

func TestTrain_Separable(t *testing.T) {
	res, err := experiment.Train(indicatorDesign(100), experiment.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 80, res.TrainSize)
	assert.Equal(t, 20, res.TestSize)
	assert.Equal(t, map[int]int{0: 50, 1: 50}, res.ClassCounts)
	assert.Equal(t, 1.0, res.Accuracy)
	assert.Equal(t, 1.0, res.AUC)
	assert.Equal(t, 20, res.Confusion.Total())
	assert.Equal(t, "Desktop", res.Reference)

	coef := res.Coefficients()
	require.Contains(t, coef, "Smartphone")
	require.Contains(t, coef, "Tablet")
	assert.Greater(t, coef["Smartphone"], coef["Tablet"])
}

func TestTrain_Reproducible(t *testing.T) {
	a, err := experiment.Train(indicatorDesign(60), experiment.DefaultConfig())
	require.NoError(t, err)
	b, err := experiment.Train(indicatorDesign(60), experiment.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, a.Model.Coef(), b.Model.Coef())
	assert.Equal(t, a.Model.Intercept(), b.Model.Intercept())
	assert.Equal(t, a.Accuracy, b.Accuracy)
}

func TestTrain_SingleClassIsTrainingError(t *testing.T) {
	d := indicatorDesign(20)
	d.Y = mat.NewVecDense(20, nil)

	_, err := experiment.Train(d, experiment.DefaultConfig())
	require.Error(t, err)

	var trainErr *scigoErrors.TrainingError
	require.ErrorAs(t, err, &trainErr)
	assert.ErrorIs(t, err, scigoErrors.ErrSingleClass)
	assert.Equal(t, map[int]int{0: 20, 1: 0}, trainErr.ClassCounts)
	assert.Equal(t, 16, trainErr.TrainSize)
	assert.Equal(t, 4, trainErr.TestSize)
}

func TestTrain_TooFewRows(t *testing.T) {
	d := indicatorDesign(1)

	_, err := experiment.Train(d, experiment.DefaultConfig())
	var trainErr *scigoErrors.TrainingError
	require.ErrorAs(t, err, &trainErr)
	assert.Equal(t, 1, trainErr.TrainSize)

	_, err = experiment.Train(nil, experiment.DefaultConfig())
	assert.ErrorAs(t, err, &trainErr)
}

func TestTrain_BadTestSize(t *testing.T) {
	cfg := experiment.DefaultConfig()
	cfg.TestSize = 0

	_, err := experiment.Train(indicatorDesign(10), cfg)
	var trainErr *scigoErrors.TrainingError
	require.ErrorAs(t, err, &trainErr)
	var validationErr *scigoErrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
