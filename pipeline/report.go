package pipeline

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ezoic/adengage/engagement"
	"github.com/ezoic/adengage/metrics"
	scigoErrors "github.com/ezoic/adengage/pkg/errors"
)

// Report summarises a run. It is written as YAML when a report path is
// configured.
type Report struct {
	RunID     string    `yaml:"run_id"`
	StartedAt time.Time `yaml:"started_at"`
	Input     string    `yaml:"input"`
	Rows      int       `yaml:"rows"`
	Columns   int       `yaml:"columns"`

	RawMissingEngagement int              `yaml:"raw_missing_engagement"`
	BlankEngagement      int              `yaml:"blank_engagement"`
	Unmapped             []UnmappedValue  `yaml:"unmapped,omitempty"`
	MissingScores        int              `yaml:"missing_scores"`
	LevelCounts          map[string]int   `yaml:"level_counts"`
	Devices              []string         `yaml:"devices"`
	Levels               []string         `yaml:"levels"`
	TargetDevice         string           `yaml:"target_device"`
	TargetCount          int              `yaml:"target_count"`
	Aggregate            []DeviceScore    `yaml:"aggregate"`
	Chart                string           `yaml:"chart"`
	Training             *TrainingSummary `yaml:"training,omitempty"`
	TrainingError        string           `yaml:"training_error,omitempty"`
}

// UnmappedValue is an engagement value outside the known levels.
type UnmappedValue struct {
	Row   int    `yaml:"row"`
	Value string `yaml:"value"`
}

// DeviceScore is one bar of the chart.
type DeviceScore struct {
	Device string  `yaml:"device"`
	Mean   float64 `yaml:"mean"`
	Count  int     `yaml:"count"`
}

// TrainingSummary holds the classifier evaluation.
type TrainingSummary struct {
	Accuracy       float64            `yaml:"accuracy"`
	Precision      float64            `yaml:"precision"`
	Recall         float64            `yaml:"recall"`
	F1             float64            `yaml:"f1"`
	AUC            float64            `yaml:"auc"`
	Confusion      metrics.Confusion  `yaml:"confusion"`
	Coefficients   map[string]float64 `yaml:"coefficients"`
	Intercept      float64            `yaml:"intercept"`
	FeatureColumns []string           `yaml:"feature_columns"`
	Reference      string             `yaml:"reference"`
	TrainSize      int                `yaml:"train_size"`
	TestSize       int                `yaml:"test_size"`
	ClassCounts    map[int]int        `yaml:"class_counts"`
	Iterations     int                `yaml:"iterations"`
	Converged      bool               `yaml:"converged"`
}

// fill copies the results held in s into r.
func (r *Report) fill(s *State) {
	if s.Raw != nil {
		r.Rows, r.Columns = s.Raw.Nrow(), s.Raw.Ncol()
	}
	if n := s.Normalization; n != nil {
		r.RawMissingEngagement = n.MissingBefore
		r.BlankEngagement = n.Blank
		r.MissingScores = n.MissingAfter
		r.LevelCounts = make(map[string]int, len(n.Counts))
		for _, level := range engagement.Levels() {
			r.LevelCounts[level.String()] = n.Counts[level]
		}
		for _, me := range n.Unmapped {
			r.Unmapped = append(r.Unmapped, UnmappedValue{Row: me.Row, Value: me.Value})
		}
	}
	r.Devices, r.Levels = s.Devices, s.Levels
	if s.Filtered != nil {
		r.TargetCount = s.Filtered.Nrow()
	}
	for _, m := range s.Means {
		r.Aggregate = append(r.Aggregate, DeviceScore{Device: m.Device, Mean: m.Mean, Count: m.Count})
	}
	if s.TrainingErr != nil {
		r.TrainingError = s.TrainingErr.Error()
	}
	if res := s.Result; res != nil {
		r.Training = &TrainingSummary{
			Accuracy:       res.Accuracy,
			Precision:      res.Precision,
			Recall:         res.Recall,
			F1:             res.F1,
			AUC:            res.AUC,
			Confusion:      res.Confusion,
			Coefficients:   res.Coefficients(),
			Intercept:      res.Model.Intercept(),
			FeatureColumns: res.FeatureNames,
			Reference:      res.Reference,
			TrainSize:      res.TrainSize,
			TestSize:       res.TestSize,
			ClassCounts:    res.ClassCounts,
			Iterations:     res.Model.NIter(),
			Converged:      res.Model.Converged(),
		}
	}
}

// WriteReport writes r to path as YAML.
func WriteReport(r *Report, path string) error {
	b, err := yaml.Marshal(r)
	if err != nil {
		return scigoErrors.Wrap(err, "marshal report")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return scigoErrors.Wrapf(err, "write report %s", path)
	}
	return nil
}
