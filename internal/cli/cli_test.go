package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, done, err := Parse([]string{"scenario.yml"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, done)

	assert.Equal(t, "scenario.yml", cfg.ScenarioPath)
	assert.Equal(t, "", cfg.ModelsPath)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseAllFlags(t *testing.T) {
	cfg, done, err := Parse([]string{
		"--models-path", "models",
		"--log-format", "json",
		"--log-level", "debug",
		"scenario.yml",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, done)

	assert.Equal(t, "models", cfg.ModelsPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseHelpIsCleanExit(t *testing.T) {
	var out bytes.Buffer
	cfg, done, err := Parse([]string{"--help"}, &out)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseNoScenarioPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, done, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "SCENARIO")
}

func TestParseRejectsExtraArguments(t *testing.T) {
	_, _, err := Parse([]string{"a.yml", "b.yml"}, &bytes.Buffer{})
	var exit *ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 2, exit.Code)
}

func TestParseRejectsInvalidLogFormat(t *testing.T) {
	_, _, err := Parse([]string{"--log-format", "xml", "scenario.yml"}, &bytes.Buffer{})
	var exit *ExitError
	require.ErrorAs(t, err, &exit)
	assert.Contains(t, exit.Message, "log-format")
}

func TestParseRejectsInvalidLogLevel(t *testing.T) {
	_, _, err := Parse([]string{"--log-level", "loud", "scenario.yml"}, &bytes.Buffer{})
	var exit *ExitError
	require.ErrorAs(t, err, &exit)
	assert.Contains(t, exit.Message, "log-level")
}

func TestParseRejectsUnknownFlag(t *testing.T) {
	_, _, err := Parse([]string{"--frobnicate", "scenario.yml"}, &bytes.Buffer{})
	var exit *ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 2, exit.Code)
}

func TestParseNormalizesCase(t *testing.T) {
	cfg, _, err := Parse([]string{"--log-level", "WARN", "--log-format", "JSON", "scenario.yml"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}
