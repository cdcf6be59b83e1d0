package errors_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	scigoErrors "github.com/ezoic/adengage/pkg/errors"
	"github.com/ezoic/adengage/pkg/log"
)

// TestErrorWrappingCompatibility tests standard wrapping with our custom types
func TestErrorWrappingCompatibility(t *testing.T) {
	originalErr := scigoErrors.NewNotFittedError("LogisticRegression", "Predict")

	wrappedErr := fmt.Errorf("pipeline step failed: %w", originalErr)

	if !errors.Is(wrappedErr, originalErr) {
		t.Errorf("errors.Is failed to identify wrapped error")
	}

	var notFittedErr *scigoErrors.NotFittedError
	if !errors.As(wrappedErr, &notFittedErr) {
		t.Fatalf("errors.As failed to extract NotFittedError")
	}
	if notFittedErr.ModelName != "LogisticRegression" {
		t.Errorf("expected ModelName 'LogisticRegression', got '%s'", notFittedErr.ModelName)
	}
}

// TestCombinedErrorTypes tests mixing custom and standard errors
func TestCombinedErrorTypes(t *testing.T) {
	stdErr := fmt.Errorf("standard error")
	customErr := scigoErrors.NewModelError("TestOp", "test failure", stdErr)
	wrappedErr := fmt.Errorf("operation context: %w", customErr)

	if !errors.Is(wrappedErr, stdErr) {
		t.Errorf("failed to find standard error in chain")
	}

	var modelErr *scigoErrors.ModelError
	if !errors.As(wrappedErr, &modelErr) {
		t.Fatalf("failed to extract ModelError")
	}
	if modelErr.Unwrap() != stdErr {
		t.Errorf("ModelError.Unwrap did not return the cause")
	}
}

// TestStageErrorsUnwrap tests that stage errors expose their cause
func TestStageErrorsUnwrap(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name string
		err  error
	}{
		{"load", scigoErrors.NewLoadError("in.csv", cause)},
		{"render", scigoErrors.NewRenderError("out.png", cause)},
		{"training", scigoErrors.NewTrainingError("fit failed", 8, 2, nil, cause)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, cause) {
				t.Errorf("%s error does not unwrap to its cause", tt.name)
			}
		})
	}
}

// TestMappingErrorIsUnknownLevel tests the sentinel behind a MappingError
func TestMappingErrorIsUnknownLevel(t *testing.T) {
	err := scigoErrors.NewMappingError(5, "Very High")

	if !errors.Is(err, scigoErrors.ErrUnknownLevel) {
		t.Errorf("MappingError should match ErrUnknownLevel")
	}
	want := `row 5: "Very High" is not a known engagement level`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

// TestTrainingErrorWithoutCounts tests the message when no class counts are known
func TestTrainingErrorWithoutCounts(t *testing.T) {
	err := scigoErrors.NewTrainingError("cannot prepare features", 0, 0, nil, nil)

	want := "training: cannot prepare features (train=0, test=0)"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

// TestRecover tests that a panic becomes an error
func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer scigoErrors.Recover(&err, "Test.Run")
		var m map[string]int
		m["x"] = 1
		return nil
	}

	err := run()
	if err == nil {
		t.Fatal("expected an error from the recovered panic")
	}

	keep := func() (err error) {
		defer scigoErrors.Recover(&err, "Test.Keep")
		return scigoErrors.ErrEmptyData
	}
	if !errors.Is(keep(), scigoErrors.ErrEmptyData) {
		t.Errorf("Recover should keep an existing error")
	}
}

// TestWarn tests the warning handler hook
func TestWarn(t *testing.T) {
	var got []error
	prev := scigoErrors.SetWarningHandler(func(w error) { got = append(got, w) })
	defer scigoErrors.SetWarningHandler(prev)

	scigoErrors.Warn(scigoErrors.NewConvergenceWarning("lbfgs", 1000, "iteration limit"))
	scigoErrors.Warn(nil)

	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
	var cw *scigoErrors.ConvergenceWarning
	if !errors.As(got[0], &cw) || cw.Iterations != 1000 {
		t.Errorf("unexpected warning %v", got[0])
	}
}

// TestWarnDefaultHandlerFollowsLogLevel tests that default warnings go through pkg/log
func TestWarnDefaultHandlerFollowsLogLevel(t *testing.T) {
	var buf bytes.Buffer
	provider := log.NewZerologProviderWithWriter(zerolog.WarnLevel, &buf)
	prev := log.SetProvider(provider)
	defer log.SetProvider(prev)

	scigoErrors.Warn(scigoErrors.NewConvergenceWarning("lbfgs", 5, "iteration limit"))
	out := buf.String()
	if !strings.Contains(out, `"logger":"errors"`) || !strings.Contains(out, "lbfgs") {
		t.Errorf("expected a named warning line, got %q", out)
	}

	buf.Reset()
	provider.SetLevel(zerolog.ErrorLevel)
	scigoErrors.Warn(scigoErrors.NewConvergenceWarning("lbfgs", 5, "iteration limit"))
	if buf.Len() != 0 {
		t.Errorf("warning should be filtered at error level, got %q", buf.String())
	}
}
