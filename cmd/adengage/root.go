package main

import (
	"github.com/spf13/cobra"

	"github.com/ezoic/adengage/config"
	"github.com/ezoic/adengage/pipeline"
	"github.com/ezoic/adengage/pkg/log"
)

type flags struct {
	cfgFile  string
	input    string
	chart    string
	device   string
	seed     uint64
	testSize float64
	report   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:           "adengage",
		Short:         "Analyse ad engagement by shopping device",
		Long:          `adengage loads consumer behaviour data, normalises the ad engagement levels, charts the average engagement per device and trains a logistic regression predicting High engagement from the device used.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.cfgFile)
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log.SetupLogger(cfg.LogLevel)
			_, err = pipeline.Run(cfg, cmd.OutOrStdout())
			if err != nil {
				log.LogError(err, "Run failed")
			}
			return err
		},
	}

	pf := cmd.Flags()
	pf.StringVar(&f.cfgFile, "config", "", "YAML config file")
	pf.StringVar(&f.input, "input", "", "input CSV (default "+config.Default().InputPath+")")
	pf.StringVar(&f.chart, "chart", "", "chart output path (default "+config.Default().ChartPath+")")
	pf.StringVar(&f.device, "device", "", "device shown in the filter example (default "+config.Default().TargetDevice+")")
	pf.Uint64Var(&f.seed, "seed", 0, "train/test split seed (default 42)")
	pf.Float64Var(&f.testSize, "test-size", 0, "held-out fraction (default 0.2)")
	pf.StringVar(&f.report, "report", "", "write a YAML run report to this path")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

// apply overrides cfg with the flags set on the command line.
func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("input") {
		cfg.InputPath = f.input
	}
	if set("chart") {
		cfg.ChartPath = f.chart
	}
	if set("device") {
		cfg.TargetDevice = f.device
	}
	if set("seed") {
		cfg.Seed = f.seed
	}
	if set("test-size") {
		cfg.TestSize = f.testSize
	}
	if set("report") {
		cfg.ReportPath = f.report
	}
	if set("log-level") {
		cfg.LogLevel = f.logLevel
	}
}
