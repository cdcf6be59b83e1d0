package linear_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/adengage/linear"
)

// ExampleLogisticRegression demonstrates fitting a binary classifier on one
// indicator feature
func ExampleLogisticRegression() {
	// the positive class is far more common when the feature is set
	X := mat.NewDense(8, 1, []float64{1, 1, 1, 1, 0, 0, 0, 0})
	y := mat.NewVecDense(8, []float64{1, 1, 1, 0, 0, 0, 0, 1})

	clf := linear.NewLogisticRegression()
	if err := clf.Fit(X, y); err != nil {
		fmt.Println("error:", err)
		return
	}

	pred, err := clf.Predict(mat.NewDense(2, 1, []float64{1, 0}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("Feature set: %.0f, feature unset: %.0f\n", pred.AtVec(0), pred.AtVec(1))
	fmt.Printf("Positive weight: %v\n", clf.Coef()[0] > 0)

	// Output:
	// Feature set: 1, feature unset: 0
	// Positive weight: true
}
