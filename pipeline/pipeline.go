// Package pipeline chains the analysis stages of a run: load, normalize,
// filter, aggregate, render, prepare and train.
//
// A Pipeline is an ordered list of named steps sharing one State. Steps run
// in order; the first failing step stops the run and its error is returned
// wrapped with the step name.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/ezoic/adengage/aggregate"
	"github.com/ezoic/adengage/config"
	"github.com/ezoic/adengage/dataset"
	"github.com/ezoic/adengage/engagement"
	"github.com/ezoic/adengage/experiment"
	scigoErrors "github.com/ezoic/adengage/pkg/errors"
	"github.com/ezoic/adengage/pkg/log"
	"github.com/ezoic/adengage/preprocessing"
)

// State carries intermediate results between steps.
type State struct {
	Config *config.Config
	Out    io.Writer

	Raw           *dataset.Table
	Clean         *dataset.Table
	Normalization *engagement.Report
	Devices       []string
	Levels        []string
	Filtered      *dataset.Table
	Means         aggregate.DeviceMeans
	Design        *preprocessing.Design
	Result        *experiment.Result

	// TrainingErr is set instead of failing the run when the classifier
	// cannot be trained on the data.
	TrainingErr error
}

// printf writes diagnostics to the run output. Write errors are ignored.
func (s *State) printf(format string, args ...interface{}) {
	if s.Out != nil {
		fmt.Fprintf(s.Out, format, args...)
	}
}

// Step is a named stage of the pipeline.
type Step struct {
	Name string
	Run  func(*State) error
}

// Pipeline runs steps in order.
type Pipeline struct {
	logger log.Logger
	steps  []Step
}

// New creates a Pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{
		steps:  steps,
		logger: log.GetLoggerWithName("pipeline"),
	}
}

// WithLogger returns the pipeline using logger for step events.
func (p *Pipeline) WithLogger(logger log.Logger) *Pipeline {
	p.logger = logger
	return p
}

// Steps returns a copy of the steps.
func (p *Pipeline) Steps() []Step {
	steps := make([]Step, len(p.steps))
	copy(steps, p.steps)
	return steps
}

// Names returns the step names in order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name
	}
	return names
}

// Execute runs every step against s.
func (p *Pipeline) Execute(s *State) error {
	for _, step := range p.steps {
		start := time.Now()
		if err := step.Run(s); err != nil {
			p.logger.Error("Step failed", err, log.StepKey, step.Name)
			return scigoErrors.Wrapf(err, "step %q", step.Name)
		}
		p.logger.Debug("Step completed",
			log.StepKey, step.Name,
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
	return nil
}
