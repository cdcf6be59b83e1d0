package model_test

import (
	"fmt"

	"github.com/ezoic/adengage/core/model"
)

// ExampleStateManager demonstrates fitted-state tracking
func ExampleStateManager() {
	state := model.NewStateManager()

	fmt.Printf("Initially fitted: %t\n", state.IsFitted())

	state.SetFitted()
	state.SetDimensions(2, 100)
	nFeatures, nSamples := state.Dimensions()
	fmt.Printf("After SetFitted: %t (%d features, %d samples)\n", state.IsFitted(), nFeatures, nSamples)

	state.Reset()
	fmt.Printf("After Reset: %s\n", state.State())

	// Output: Initially fitted: false
	// After SetFitted: true (2 features, 100 samples)
	// After Reset: not fitted
}
