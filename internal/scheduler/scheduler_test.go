package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/specialistvlad/asyncjobs/internal/ctxlog"
	"github.com/specialistvlad/asyncjobs/internal/job"
	"github.com/specialistvlad/asyncjobs/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func sleepJob(label string, d time.Duration) *job.Job {
	return job.New(func(ctx context.Context) (any, error) {
		select {
		case <-time.After(d):
			return d, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, job.Config{Label: label})
}

// Scenario 1: parallel fan-out, no deps.
func TestParallelFanOut(t *testing.T) {
	s := New(DefaultConfig())
	j1 := sleepJob("j1", 30*time.Millisecond)
	j2 := sleepJob("j2", 60*time.Millisecond)
	j3 := sleepJob("j3", 90*time.Millisecond)
	s.Update(j1, j2, j3)

	start := time.Now()
	ok, err := s.Run(testCtx())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Less(t, elapsed, 150*time.Millisecond)
	assert.True(t, j1.IsDone())
	assert.True(t, j2.IsDone())
	assert.True(t, j3.IsDone())
}

// Scenario 2: linear dependency plus a free job.
func TestLinearDependency(t *testing.T) {
	s := New(DefaultConfig())
	b1 := sleepJob("b1", 30*time.Millisecond)
	b2 := sleepJob("b2", 60*time.Millisecond)
	b3 := sleepJob("b3", 70*time.Millisecond)
	seq := sequence.New(b1, b2)
	s.Update(seq, b3)

	ok, err := s.Run(testCtx())
	require.NoError(t, err)
	assert.True(t, ok)

	require.False(t, b1.Outcome() == nil)
	require.False(t, b2.Outcome() == nil)
	require.False(t, b3.Outcome() == nil)
}

// Scenario 5: non-critical exception, chain survives.
func TestNonCriticalExceptionChainSurvives(t *testing.T) {
	boom := errors.New("e2 boom")
	s := New(DefaultConfig())

	e1 := job.New(func(ctx context.Context) (any, error) {
		time.Sleep(10 * time.Millisecond)
		return "e1-ok", nil
	}, job.Config{Label: "e1"})
	critFalse := false
	e2 := job.New(func(ctx context.Context) (any, error) {
		time.Sleep(10 * time.Millisecond)
		return nil, boom
	}, job.Config{Label: "e2", Critical: &critFalse})
	e3 := job.New(func(ctx context.Context) (any, error) {
		time.Sleep(10 * time.Millisecond)
		return "e3-ok", nil
	}, job.Config{Label: "e3"})

	s.Update(sequence.New(e1, e2, e3))

	ok, err := s.Run(testCtx())
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, e2.RaisedException(), boom)
	result, err := e3.Result()
	require.NoError(t, err)
	assert.Equal(t, "e3-ok", result)
}

// Scenario 6: critical exception aborts downstream.
func TestCriticalExceptionAborts(t *testing.T) {
	boom := errors.New("e2 critical boom")
	s := New(DefaultConfig())

	e1 := job.New(func(ctx context.Context) (any, error) {
		time.Sleep(10 * time.Millisecond)
		return "e1-ok", nil
	}, job.Config{Label: "e1"})
	critTrue := true
	e2 := job.New(func(ctx context.Context) (any, error) {
		time.Sleep(10 * time.Millisecond)
		return nil, boom
	}, job.Config{Label: "e2", Critical: &critTrue})
	e3 := job.New(func(ctx context.Context) (any, error) {
		time.Sleep(50 * time.Millisecond)
		return "e3-ok", nil
	}, job.Config{Label: "e3"})

	s.Update(sequence.New(e1, e2, e3))

	ok, err := s.Run(testCtx())
	assert.False(t, ok)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrCriticalFailure)

	assert.True(t, e1.IsDone())
	assert.True(t, e3.IsIdle())
}

// Scenario 7: jobs window bounds concurrency.
func TestJobsWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JobsWindow = 4
	s := New(cfg)

	for i := 0; i < 8; i++ {
		s.Add(sleepJob("w", 100*time.Millisecond))
	}

	start := time.Now()
	ok, err := s.Run(testCtx())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, elapsed, 180*time.Millisecond)
	assert.Less(t, elapsed, 400*time.Millisecond)
}

// Scenario 8: nested critical scheduler propagates.
func TestNestedCriticalSchedulerPropagates(t *testing.T) {
	outerCfg := DefaultConfig()
	outerCfg.Critical = false
	outer := New(outerCfg)

	innerCfg := DefaultConfig()
	innerCfg.Critical = true
	nested := NewNested(innerCfg)

	boom := errors.New("inner boom")
	critTrue := true
	innerJob := job.New(func(ctx context.Context) (any, error) {
		return nil, boom
	}, job.Config{Label: "inner", Critical: &critTrue})
	nested.Add(innerJob)

	sibling := sleepJob("sibling", 10*time.Millisecond)

	outer.Update(nested, sibling)

	ok, err := outer.Run(testCtx())
	assert.False(t, ok)
	assert.NoError(t, err) // outer itself is non-critical: no raise

	assert.True(t, nested.IsDone())
	require.NotNil(t, nested.Outcome())
	assert.Error(t, nested.Outcome().Exception)
	assert.True(t, sibling.IsDone())
}

// Global timeout: a forever job outlives the deadline.
func TestGlobalTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 60 * time.Millisecond
	s := New(cfg)

	monitor := job.New(func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, job.Config{Label: "monitor", Forever: true})
	s.Add(monitor)

	ok, err := s.Run(testCtx())
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrTimedOut)
	assert.True(t, s.FailedTimeOut())
}

func TestReRunningDoneSchedulerIsNoOp(t *testing.T) {
	s := New(DefaultConfig())
	j := job.New(func(ctx context.Context) (any, error) { return "v", nil }, job.Config{Label: "once"})
	s.Add(j)

	ok, err := s.Run(testCtx())
	require.NoError(t, err)
	require.True(t, ok)

	ok2, err2 := s.Run(testCtx())
	require.NoError(t, err2)
	assert.True(t, ok2)
}
