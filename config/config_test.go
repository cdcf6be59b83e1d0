package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/adengage/config"
	scigoErrors "github.com/ezoic/adengage/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)

	want := &config.Config{
		InputPath:    "Ecommerce_Consumer_Behavior_Analysis_Data.csv",
		ChartPath:    "ads_by_device.png",
		TargetDevice: "Smartphone",
		Seed:         42,
		TestSize:     0.2,
		MaxIter:      1000,
		C:            1.0,
		LogLevel:     "info",
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, config.Default(), c)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adengage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input_path: data/shoppers.csv
target_device: Tablet
seed: 7
test_size: 0.3
`), 0o644))

	c, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/shoppers.csv", c.InputPath)
	assert.Equal(t, "Tablet", c.TargetDevice)
	assert.Equal(t, uint64(7), c.Seed)
	assert.InDelta(t, 0.3, c.TestSize, 1e-12)
	// untouched keys keep their defaults
	assert.Equal(t, "ads_by_device.png", c.ChartPath)
	assert.Equal(t, 1000, c.MaxIter)

	exp := c.Experiment()
	assert.Equal(t, uint64(7), exp.Seed)
	assert.InDelta(t, 0.3, exp.TestSize, 1e-12)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("test_size: 1.5\n"), 0o644))

	_, err := config.Load(path)
	var validationErr *scigoErrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "test_size", validationErr.ParamName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		param  string
	}{
		{"empty input", func(c *config.Config) { c.InputPath = "" }, "input_path"},
		{"empty chart", func(c *config.Config) { c.ChartPath = "" }, "chart_path"},
		{"empty device", func(c *config.Config) { c.TargetDevice = "" }, "target_device"},
		{"zero test size", func(c *config.Config) { c.TestSize = 0 }, "test_size"},
		{"zero iterations", func(c *config.Config) { c.MaxIter = 0 }, "max_iter"},
		{"negative C", func(c *config.Config) { c.C = -1 }, "c"},
		{"bad level", func(c *config.Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.Default()
			tt.mutate(c)

			var validationErr *scigoErrors.ValidationError
			require.ErrorAs(t, c.Validate(), &validationErr)
			assert.Equal(t, tt.param, validationErr.ParamName)
		})
	}
	assert.NoError(t, config.Default().Validate())

	for _, level := range []string{"warning", "off", "DEBUG", "disabled"} {
		c := config.Default()
		c.LogLevel = level
		assert.NoError(t, c.Validate(), level)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	c := config.Default()
	c.TargetDevice = "Desktop"
	c.ReportPath = "report.yaml"

	require.NoError(t, config.Save(c, path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(c, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
