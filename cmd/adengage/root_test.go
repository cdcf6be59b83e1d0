package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scigoErrors "github.com/ezoic/adengage/pkg/errors"
)

const sampleCSV = "../../dataset/testdata/consumer_behavior_sample.csv"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_RunsWithFlags(t *testing.T) {
	dir := t.TempDir()
	chart := filepath.Join(dir, "chart.png")
	report := filepath.Join(dir, "report.yaml")

	out, err := execute(t,
		"--input", sampleCSV,
		"--chart", chart,
		"--report", report,
		"--device", "Tablet",
		"--log-level", "error",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "---- FILTER: Tablet Users ----")
	assert.Contains(t, out, "Number of tablet users: 2")
	assert.FileExists(t, chart)
	assert.FileExists(t, report)
}

func TestRoot_ConfigFileThenFlags(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "adengage.yaml")
	chart := filepath.Join(dir, "from-config.png")
	require.NoError(t, os.WriteFile(cfgFile, []byte(
		"input_path: "+sampleCSV+"\nchart_path: "+chart+"\ntarget_device: Desktop\nlog_level: error\n"), 0o644))

	out, err := execute(t, "--config", cfgFile, "--device", "Smartphone")
	require.NoError(t, err)

	// the flag wins over the file, the file over the defaults
	assert.Contains(t, out, "Number of smartphone users: 4")
	assert.FileExists(t, chart)
}

func TestRoot_MissingInputFails(t *testing.T) {
	_, err := execute(t,
		"--input", filepath.Join(t.TempDir(), "absent.csv"),
		"--chart", filepath.Join(t.TempDir(), "chart.png"),
		"--log-level", "error",
	)
	require.Error(t, err)
	var loadErr *scigoErrors.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestRoot_RejectsBadTestSize(t *testing.T) {
	_, err := execute(t, "--input", sampleCSV, "--test-size", "0")
	var validationErr *scigoErrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestRoot_RejectsArgs(t *testing.T) {
	_, err := execute(t, "extra")
	assert.Error(t, err)
}
