// Package config loads run settings from defaults and an optional YAML file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ezoic/adengage/aggregate"
	"github.com/ezoic/adengage/chart"
	"github.com/ezoic/adengage/dataset"
	"github.com/ezoic/adengage/experiment"
	scigoErrors "github.com/ezoic/adengage/pkg/errors"
	"github.com/ezoic/adengage/pkg/log"
)

// Config holds every setting of a run.
type Config struct {
	InputPath    string  `mapstructure:"input_path" yaml:"input_path"`
	ChartPath    string  `mapstructure:"chart_path" yaml:"chart_path"`
	TargetDevice string  `mapstructure:"target_device" yaml:"target_device"`
	Seed         uint64  `mapstructure:"seed" yaml:"seed"`
	TestSize     float64 `mapstructure:"test_size" yaml:"test_size"`
	MaxIter      int     `mapstructure:"max_iter" yaml:"max_iter"`
	C            float64 `mapstructure:"c" yaml:"c"`
	LogLevel     string  `mapstructure:"log_level" yaml:"log_level"`
	// ReportPath, when set, receives a YAML summary of the run.
	ReportPath string `mapstructure:"report_path" yaml:"report_path,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	exp := experiment.DefaultConfig()
	return &Config{
		InputPath:    dataset.DefaultPath,
		ChartPath:    chart.DefaultPath,
		TargetDevice: aggregate.DefaultDevice,
		Seed:         exp.Seed,
		TestSize:     exp.TestSize,
		MaxIter:      exp.MaxIter,
		C:            exp.C,
		LogLevel:     "info",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("input_path", d.InputPath)
	v.SetDefault("chart_path", d.ChartPath)
	v.SetDefault("target_device", d.TargetDevice)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("test_size", d.TestSize)
	v.SetDefault("max_iter", d.MaxIter)
	v.SetDefault("c", d.C)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("report_path", "")
}

// Load returns the defaults overlaid with cfgFile when it is non-empty.
// Environment variables are not consulted.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if ext := strings.TrimPrefix(filepath.Ext(cfgFile), "."); ext == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, scigoErrors.Wrapf(err, "read config %s", cfgFile)
		}
		log.GetLoggerWithName("config").Debug("Config file read", log.PathKey, cfgFile)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, scigoErrors.Wrap(err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	switch {
	case c.InputPath == "":
		return scigoErrors.NewValidationError("input_path", "must not be empty", c.InputPath)
	case c.ChartPath == "":
		return scigoErrors.NewValidationError("chart_path", "must not be empty", c.ChartPath)
	case c.TargetDevice == "":
		return scigoErrors.NewValidationError("target_device", "must not be empty", c.TargetDevice)
	case c.TestSize <= 0 || c.TestSize >= 1:
		return scigoErrors.NewValidationError("test_size", "must be in (0, 1)", c.TestSize)
	case c.MaxIter <= 0:
		return scigoErrors.NewValidationError("max_iter", "must be positive", c.MaxIter)
	case c.C <= 0:
		return scigoErrors.NewValidationError("c", "must be positive", c.C)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return scigoErrors.NewValidationError("log_level", err.Error(), c.LogLevel)
	}
	return nil
}

// Experiment returns the classifier settings.
func (c *Config) Experiment() experiment.Config {
	return experiment.Config{
		TestSize: c.TestSize,
		Seed:     c.Seed,
		MaxIter:  c.MaxIter,
		C:        c.C,
	}
}

// Save writes c to path as YAML.
func Save(c *Config, path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return scigoErrors.Wrap(err, "marshal yaml")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return scigoErrors.Wrap(err, "write config")
	}
	return nil
}
