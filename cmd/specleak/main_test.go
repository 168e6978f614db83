package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kolkov/specleak/internal/config"
	"github.com/kolkov/specleak/internal/platform"
)

// execute runs the CLI with args and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newApp(&stdout, &stderr).root()
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "specleak version 0.1.0\n", out)
}

func TestVersionFlag(t *testing.T) {
	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "specleak version 0.1.0\n", out)
}

func TestInfoCommand(t *testing.T) {
	out, _, err := execute(t, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "specleak 0.1.0")
	assert.Contains(t, out, "platform:")
	assert.Contains(t, out, "supported:")
}

func TestConfigCommand_Defaults(t *testing.T) {
	out, _, err := execute(t, "config")
	require.NoError(t, err)

	var got config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, config.Default(), got)
}

func TestConfigCommand_FileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specleak.yaml")
	require.NoError(t, os.WriteFile(path, []byte("oracle:\n  max_rounds: 42\nregion:\n  secret: from-file\n"), 0o600))
	t.Setenv("SPECLEAK_ORACLE_CONVERGENCE_MARGIN", "9")

	out, _, err := execute(t, "config", "--config", path, "--log-level", "debug")
	require.NoError(t, err)

	var got config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, 42, got.Oracle.MaxRounds)
	assert.Equal(t, 9, got.Oracle.ConvergenceMargin)
	assert.Equal(t, "from-file", got.Region.Secret)
	assert.Equal(t, "debug", got.Log.Level)
}

func TestLeakCommand_InvalidTuning(t *testing.T) {
	_, _, err := execute(t, "leak", "--train-ratio", "1")
	assert.ErrorContains(t, err, "train_ratio")
}

func TestLeakCommand_BadLogLevel(t *testing.T) {
	_, _, err := execute(t, "leak", "--log-level", "shout")
	assert.ErrorContains(t, err, "log.level")
}

func TestLeakCommand_Runs(t *testing.T) {
	args := []string{
		"leak", "--secret", "ab",
		"--max-rounds", "2", "--training-iterations", "20", "--train-ratio", "10", "--stall", "10",
	}
	out, _, err := execute(t, args...)

	if !platform.Check().Supported {
		assert.ErrorContains(t, err, "platform not supported")
		return
	}
	require.NoError(t, err)
	assert.Contains(t, out, "Reading 2 bytes:\n")
	assert.Contains(t, out, "Reading at offset 0x")
	assert.Contains(t, out, "Recovered 2 bytes:")
}

func TestLeakCommand_RangeOutsideSecret(t *testing.T) {
	if !platform.Check().Supported {
		t.Skip("hardware channel unavailable")
	}
	_, _, err := execute(t, "leak", "--secret", "ab", "--offset", "1", "--length", "1000000")
	assert.ErrorContains(t, err, "outside")

	_, _, err = execute(t, "leak", "--secret", "ab", "--offset", "9223372036854775807", "--length", "1")
	assert.ErrorContains(t, err, "outside")

	// Past the secret but inside its page.
	_, _, err = execute(t, "leak", "--secret", "ab", "--offset", "2", "--length", "1")
	assert.ErrorContains(t, err, "outside")
}

func TestCalibrateCommand_BadSamples(t *testing.T) {
	_, _, err := execute(t, "calibrate", "--samples", "0")
	assert.ErrorContains(t, err, "--samples")
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := execute(t, "frobnicate")
	assert.Error(t, err)
}
