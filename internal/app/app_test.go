package app

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/asyncjobs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T, scenario string) *Config {
	t.Helper()
	cfg, err := NewConfig(Config{Scenario: scenario, LogLevel: "debug", LogFormat: "text"})
	require.NoError(t, err)
	return cfg
}

func TestNewConfigRejectsEmptyScenario(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.Error(t, err)
}

func TestNewConfigRejectsUnknownScenario(t *testing.T) {
	_, err := NewConfig(Config{Scenario: "no-such-scenario"})
	assert.Error(t, err)
}

func TestRunFanOutScenarioSucceeds(t *testing.T) {
	cfg := newTestConfig(t, "fan-out")
	buf := &testutil.SafeBuffer{}
	a := NewApp(buf, cfg)

	err := a.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, a.Scheduler().FailedCritical() == false)
}

func TestRunCriticalScenarioReturnsError(t *testing.T) {
	cfg := newTestConfig(t, "critical")
	buf := &testutil.SafeBuffer{}
	a := NewApp(buf, cfg)

	err := a.Run(context.Background())
	assert.Error(t, err)
	assert.True(t, a.Scheduler().FailedCritical())
}

func TestRunNonCriticalScenarioSucceedsDespiteFailure(t *testing.T) {
	cfg := newTestConfig(t, "non-critical")
	buf := &testutil.SafeBuffer{}
	a := NewApp(buf, cfg)

	err := a.Run(context.Background())
	require.NoError(t, err)
}

func TestRunTimeoutScenarioReturnsError(t *testing.T) {
	cfg, err := NewConfig(Config{Scenario: "timeout", Timeout: 80 * time.Millisecond, LogLevel: "debug", LogFormat: "text"})
	require.NoError(t, err)
	buf := &testutil.SafeBuffer{}
	a := NewApp(buf, cfg)

	runErr := a.Run(context.Background())
	assert.Error(t, runErr)
	assert.True(t, a.Scheduler().FailedTimeOut())
}

func TestRunNestedScenarioOuterSurvives(t *testing.T) {
	cfg := newTestConfig(t, "nested")
	buf := &testutil.SafeBuffer{}
	a := NewApp(buf, cfg)

	err := a.Run(context.Background())
	require.NoError(t, err) // outer is non-critical: no raise despite the nested failure
}
