package preprocessing

import (
	"errors"
	"reflect"
	"testing"

	scigoErrors "github.com/ezoic/adengage/pkg/errors"
)

func TestOneHotEncoder_Fit(t *testing.T) {
	data := [][]string{
		{"Smartphone", "Mobile App"},
		{"Tablet", "Online"},
		{"Desktop", "Mobile App"},
		{"Smartphone", "In-Store"},
	}

	encoder := NewOneHotEncoder()
	if err := encoder.Fit(data); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if !encoder.IsFitted() {
		t.Error("encoder should be fitted")
	}
	if encoder.NFeatures != 2 {
		t.Errorf("expected 2 features, got %d", encoder.NFeatures)
	}

	// categories are sorted per feature
	want := [][]string{
		{"Desktop", "Smartphone", "Tablet"},
		{"In-Store", "Mobile App", "Online"},
	}
	if !reflect.DeepEqual(encoder.Categories, want) {
		t.Errorf("expected categories %v, got %v", want, encoder.Categories)
	}
	if encoder.NOutputs != 6 {
		t.Errorf("expected 6 outputs, got %d", encoder.NOutputs)
	}
}

func TestOneHotEncoder_Transform_Basic(t *testing.T) {
	data := [][]string{
		{"Tablet"},
		{"Desktop"},
		{"Smartphone"},
	}

	encoder := NewOneHotEncoder()
	if err := encoder.Fit(data); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	result, err := encoder.Transform(data)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	rows, cols := result.Dims()
	if rows != 3 || cols != 3 {
		t.Fatalf("expected 3x3 result, got %dx%d", rows, cols)
	}

	// Desktop=col0, Smartphone=col1, Tablet=col2
	expected := [][]float64{
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 0},
	}
	for i := range expected {
		for j := range expected[i] {
			if got := result.At(i, j); got != expected[i][j] {
				t.Errorf("result[%d][%d] = %v, want %v", i, j, got, expected[i][j])
			}
		}
	}
}

func TestOneHotEncoder_DropFirst(t *testing.T) {
	data := [][]string{
		{"Tablet"},
		{"Desktop"},
		{"Smartphone"},
		{"Desktop"},
	}

	encoder := NewOneHotEncoder(WithDropFirst())
	result, err := encoder.FitTransform(data)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	if !encoder.DropFirst() {
		t.Error("DropFirst should report true")
	}
	if encoder.NOutputs != 2 {
		t.Fatalf("expected 2 outputs, got %d", encoder.NOutputs)
	}

	refs := encoder.ReferenceCategories()
	if !reflect.DeepEqual(refs, []string{"Desktop"}) {
		t.Errorf("expected reference [Desktop], got %v", refs)
	}

	names := encoder.GetFeatureNamesOut([]string{"device"})
	if !reflect.DeepEqual(names, []string{"device_Smartphone", "device_Tablet"}) {
		t.Errorf("unexpected feature names %v", names)
	}

	// the reference category is the all-zero row
	expected := [][]float64{
		{0, 1},
		{0, 0},
		{1, 0},
		{0, 0},
	}
	for i := range expected {
		for j := range expected[i] {
			if got := result.At(i, j); got != expected[i][j] {
				t.Errorf("result[%d][%d] = %v, want %v", i, j, got, expected[i][j])
			}
		}
	}
}

func TestOneHotEncoder_DropFirstSingleCategory(t *testing.T) {
	data := [][]string{{"Tablet"}, {"Tablet"}}

	encoder := NewOneHotEncoder(WithDropFirst())
	if err := encoder.Fit(data); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if encoder.NOutputs != 0 {
		t.Errorf("expected 0 outputs, got %d", encoder.NOutputs)
	}

	if _, err := encoder.Transform(data); err == nil {
		t.Error("expected an error when no output columns remain")
	}
}

func TestOneHotEncoder_UnfittedError(t *testing.T) {
	encoder := NewOneHotEncoder()

	_, err := encoder.Transform([][]string{{"Tablet"}})
	if err == nil {
		t.Fatal("expected an error for an unfitted encoder")
	}

	var notFitted *scigoErrors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %T", err)
	}
}

func TestOneHotEncoder_EmptyDataError(t *testing.T) {
	encoder := NewOneHotEncoder()

	if err := encoder.Fit([][]string{}); err == nil {
		t.Error("expected an error for empty data")
	} else if !errors.Is(err, scigoErrors.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData, got %v", err)
	}

	if err := encoder.Fit([][]string{{}}); err == nil {
		t.Error("expected an error for rows without features")
	}
}

func TestOneHotEncoder_FitTransform(t *testing.T) {
	data := [][]string{
		{"Smartphone", "High"},
		{"Tablet", "Low"},
	}

	encoder := NewOneHotEncoder()
	result, err := encoder.FitTransform(data)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	rows, cols := result.Dims()
	if rows != 2 || cols != 4 {
		t.Errorf("expected 2x4 result, got %dx%d", rows, cols)
	}

	// every input row sets exactly one column per feature
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += result.At(i, j)
		}
		if sum != 2 {
			t.Errorf("row %d: expected 2 set columns, got %v", i, sum)
		}
	}
}

func TestOneHotEncoder_UnknownCategory(t *testing.T) {
	encoder := NewOneHotEncoder()
	if err := encoder.Fit([][]string{{"Smartphone"}, {"Tablet"}}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	result, err := encoder.Transform([][]string{{"Smartwatch"}})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	// unknown categories encode as zeros
	for j := 0; j < 2; j++ {
		if result.At(0, j) != 0 {
			t.Errorf("expected 0 at column %d, got %v", j, result.At(0, j))
		}
	}
}

func TestOneHotEncoder_DimensionMismatch(t *testing.T) {
	encoder := NewOneHotEncoder()
	if err := encoder.Fit([][]string{{"Smartphone", "High"}}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := encoder.Transform([][]string{{"Smartphone"}})
	if err == nil {
		t.Fatal("expected a dimension error")
	}

	var dimErr *scigoErrors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError, got %T", err)
	}

	if err := encoder.Fit([][]string{{"a", "b"}, {"c"}}); err == nil {
		t.Error("expected an error for ragged rows")
	}
}

func TestOneHotEncoder_GetFeatureNamesOut(t *testing.T) {
	encoder := NewOneHotEncoder()
	if err := encoder.Fit([][]string{{"Tablet", "Low"}, {"Desktop", "High"}}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	names := encoder.GetFeatureNamesOut(nil)
	want := []string{"x0_Desktop", "x0_Tablet", "x1_High", "x1_Low"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("expected %v, got %v", want, names)
	}

	names = encoder.GetFeatureNamesOut([]string{"device", "level"})
	want = []string{"device_Desktop", "device_Tablet", "level_High", "level_Low"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("expected %v, got %v", want, names)
	}

	if refs := encoder.ReferenceCategories(); refs != nil {
		t.Errorf("expected no reference categories, got %v", refs)
	}
}

func TestOneHotEncoder_GetFeatureNamesOut_Unfitted(t *testing.T) {
	encoder := NewOneHotEncoder()
	if names := encoder.GetFeatureNamesOut(nil); names != nil {
		t.Errorf("expected nil for an unfitted encoder, got %v", names)
	}
}
