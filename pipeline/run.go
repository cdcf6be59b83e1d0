package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ezoic/adengage/aggregate"
	"github.com/ezoic/adengage/chart"
	"github.com/ezoic/adengage/config"
	"github.com/ezoic/adengage/dataset"
	"github.com/ezoic/adengage/engagement"
	"github.com/ezoic/adengage/experiment"
	scigoErrors "github.com/ezoic/adengage/pkg/errors"
	"github.com/ezoic/adengage/pkg/log"
	"github.com/ezoic/adengage/preprocessing"
)

// Step names of the standard run.
const (
	StepLoad      = "load"
	StepNormalize = "normalize"
	StepFilter    = "filter"
	StepAggregate = "aggregate"
	StepRender    = "render"
	StepPrepare   = "prepare"
	StepTrain     = "train"
)

const headRows = 5

// MissingMarker stands for a missing value in printed lists.
const MissingMarker = "<NA>"

// Standard returns the full analysis pipeline.
func Standard() *Pipeline {
	return New(
		Step{Name: StepLoad, Run: loadStep},
		Step{Name: StepNormalize, Run: normalizeStep},
		Step{Name: StepFilter, Run: filterStep},
		Step{Name: StepAggregate, Run: aggregateStep},
		Step{Name: StepRender, Run: renderStep},
		Step{Name: StepPrepare, Run: prepareStep},
		Step{Name: StepTrain, Run: trainStep},
	)
}

// Run executes the standard pipeline with cfg and prints diagnostics to out.
//
// Load and render failures are returned as errors. A classifier that cannot
// be trained is reported in the diagnostics and in Report.TrainingError and
// does not fail the run. The returned Report is non-nil whenever the
// configuration is valid, including on failure.
func Run(cfg *config.Config, out io.Writer) (*Report, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	logger := log.GetLoggerWithName("pipeline").With(log.RunIDKey, runID)
	start := time.Now()

	rep := &Report{
		RunID:        runID,
		StartedAt:    start.UTC(),
		Input:        cfg.InputPath,
		TargetDevice: cfg.TargetDevice,
		Chart:        cfg.ChartPath,
	}
	s := &State{Config: cfg, Out: out}

	err := Standard().WithLogger(logger).Execute(s)
	rep.fill(s)
	if err != nil {
		return rep, err
	}

	if cfg.ReportPath != "" {
		if err := WriteReport(rep, cfg.ReportPath); err != nil {
			return rep, err
		}
		logger.Info("Report written", log.PathKey, cfg.ReportPath)
	}

	logger.Info("Run completed",
		log.RowsKey, rep.Rows,
		"trained", rep.Training != nil,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return rep, nil
}

func loadStep(s *State) error {
	t, err := dataset.Load(s.Config.InputPath)
	if err != nil {
		return err
	}
	s.Raw = t

	s.printf("---- HEAD ----\n%s\n", t.Head(headRows))
	s.printf("---- INFO ----\n")
	printInfo(s, t)
	s.printf("---- DESCRIBE ----\n%v\n", t.Describe())

	missing, err := t.MissingCount(dataset.EngagementColumn)
	if err != nil {
		return err
	}
	s.printf("Missing Engagement (raw): %d\n", missing)
	return nil
}

func printInfo(s *State, t *dataset.Table) {
	s.printf("%d rows, %d columns\n", t.Nrow(), t.Ncol())
	s.printf(" #  %-28s %-9s %s\n", "Column", "Non-Null", "Type")
	for i, c := range t.Info() {
		s.printf("%2d  %-28s %-9d %s\n", i, c.Name, c.NonNull, c.Type)
	}
}

func normalizeStep(s *State) error {
	clean, rep, err := engagement.Normalize(s.Raw)
	if err != nil {
		return err
	}
	s.Clean, s.Normalization = clean, rep

	if s.Devices, err = uniqueWithMissing(clean, dataset.DeviceColumn); err != nil {
		return err
	}
	if s.Levels, err = uniqueWithMissing(clean, dataset.EngagementColumn); err != nil {
		return err
	}

	s.printf("Unique devices: %v\n", s.Devices)
	s.printf("Unique engagement levels (cleaned): %v\n", s.Levels)
	s.printf("Unmapped after mapping (should be true blanks only): %d\n", rep.MissingAfter)
	if len(rep.Unmapped) > 0 {
		values := make([]string, len(rep.Unmapped))
		for i, me := range rep.Unmapped {
			values[i] = fmt.Sprintf("row %d %q", me.Row, me.Value)
		}
		s.printf("Unknown engagement values: %s\n", strings.Join(values, ", "))
	}
	return nil
}

// uniqueWithMissing lists distinct values in first-seen order, followed by
// MissingMarker when the column has missing cells.
func uniqueWithMissing(t *dataset.Table, column string) ([]string, error) {
	values, err := t.Unique(column)
	if err != nil {
		return nil, err
	}
	missing, err := t.MissingCount(column)
	if err != nil {
		return nil, err
	}
	if missing > 0 {
		values = append(values, MissingMarker)
	}
	return values, nil
}

func filterStep(s *State) error {
	filtered, err := aggregate.FilterDevice(s.Clean, s.Config.TargetDevice)
	if err != nil {
		return err
	}
	s.Filtered = filtered

	s.printf("---- FILTER: %s Users ----\n%s\n", s.Config.TargetDevice, filtered.Head(headRows))
	s.printf("Number of %s users: %d\n", strings.ToLower(s.Config.TargetDevice), filtered.Nrow())
	return nil
}

func aggregateStep(s *State) error {
	means, err := aggregate.ByDevice(s.Clean)
	if err != nil {
		return err
	}
	s.Means = means

	s.printf("---- GROUPBY: Avg Engagement (%s) by Device ----\n", engagement.ScaleDescription)
	for _, m := range means {
		s.printf("%-12s %.6f\n", m.Device, m.Mean)
	}
	return nil
}

func renderStep(s *State) error {
	return chart.RenderBar(s.Means, s.Config.ChartPath)
}

func prepareStep(s *State) error {
	d, err := preprocessing.PrepareEngagement(s.Clean)
	if err != nil {
		s.TrainingErr = scigoErrors.NewTrainingError("cannot prepare features", 0, 0, nil, err)
		return nil
	}
	s.Design = d
	return nil
}

func trainStep(s *State) error {
	s.printf("---- ML Experiment ----\n")
	if s.Design != nil {
		res, err := experiment.Train(s.Design, s.Config.Experiment())
		if err != nil {
			s.TrainingErr = err
		} else {
			s.Result = res
		}
	}

	if s.TrainingErr != nil {
		log.GetLoggerWithName("pipeline").Warn("Training skipped", "error", s.TrainingErr.Error())
		s.printf("Training skipped: %v\n", s.TrainingErr)
		return nil
	}

	res := s.Result
	s.printf("Accuracy of predicting High engagement from Device: %v\n", res.Accuracy)
	s.printf("Model coefficients: [%s]\n", formatFloats(res.Model.Coef()))
	s.printf("Intercept: %s\n", formatFloats([]float64{res.Model.Intercept()}))
	s.printf("Feature columns: %v\n", res.FeatureNames)
	return nil
}

func formatFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.8f", x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
