package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositionalScenario(t *testing.T) {
	var out bytes.Buffer
	cfg, shouldExit, err := Parse([]string{"fan-out"}, &out)
	require.NoError(t, err)
	assert.False(t, shouldExit)
	require.NotNil(t, cfg)
	assert.Equal(t, "fan-out", cfg.Scenario)
}

func TestParseFlagScenario(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := Parse([]string{"-scenario", "jobs-window", "-jobs-window", "2", "-timeout", "500ms"}, &out)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "jobs-window", cfg.Scenario)
	assert.Equal(t, 2, cfg.JobsWindow)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeout)
}

func TestParseNoArgsExitsCleanly(t *testing.T) {
	var out bytes.Buffer
	cfg, shouldExit, err := Parse([]string{}, &out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "asyncjobs-demo")
}

func TestParseInvalidLogFormat(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"fan-out", "-log-format", "xml"}, &out)
	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseUnknownScenario(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"not-a-scenario"}, &out)
	require.Error(t, err)
}

func TestParseNegativeTimeoutRejected(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"fan-out", "-timeout", "-1s"}, &out)
	require.Error(t, err)
}
