package job

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLifecycle(t *testing.T) {
	j := New(func(ctx context.Context) (any, error) {
		return 42, nil
	}, Config{Label: "answer"})

	assert.True(t, j.IsIdle())
	assert.Equal(t, "answer", j.Label())

	_, err := j.Result()
	assert.ErrorIs(t, err, ErrNotYetDone)

	j.MarkScheduled()
	assert.True(t, j.IsScheduled())
	j.MarkRunning()
	assert.True(t, j.IsRunning())

	value, err := j.CoRun(context.Background())
	require.NoError(t, err)
	j.MarkDone(&Outcome{Value: value})

	require.True(t, j.IsDone())
	got, err := j.Result()
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Nil(t, j.RaisedException())
}

func TestJobExceptionHasNoResult(t *testing.T) {
	boom := errors.New("boom")
	j := New(func(ctx context.Context) (any, error) {
		return nil, boom
	}, Config{})

	j.MarkRunning()
	_, err := j.CoRun(context.Background())
	j.MarkDone(&Outcome{Exception: err})

	_, resErr := j.Result()
	assert.ErrorIs(t, resErr, ErrNoResult)
	assert.ErrorIs(t, j.RaisedException(), boom)
}

func TestJobSelfRequirementIsNoOp(t *testing.T) {
	j := New(func(ctx context.Context) (any, error) { return nil, nil }, Config{})
	j.Requires(false, j)
	assert.Empty(t, j.Required())
}

func TestJobCriticalDefaultsFromScheduler(t *testing.T) {
	j := New(func(ctx context.Context) (any, error) { return nil, nil }, Config{})
	assert.False(t, j.Critical())
	j.ResolveCritical(true)
	assert.True(t, j.Critical())
	j.ResolveCritical(false) // second call is a no-op
	assert.True(t, j.Critical())
}

func TestJobExplicitCriticalOverridesDefault(t *testing.T) {
	critical := true
	j := New(func(ctx context.Context) (any, error) { return nil, nil }, Config{Critical: &critical})
	j.ResolveCritical(false)
	assert.True(t, j.Critical())
}

func TestJobDefaultLabelFromFunctionName(t *testing.T) {
	j := New(sampleBody, Config{})
	assert.Equal(t, "sampleBody", j.Label())
}

func sampleBody(ctx context.Context) (any, error) { return nil, nil }

func TestJobShutdownIsIdempotent(t *testing.T) {
	calls := 0
	j := New(func(ctx context.Context) (any, error) { return nil, nil }, Config{
		Shutdown: func(ctx context.Context) error {
			calls++
			return nil
		},
	})
	require.NoError(t, j.CoShutdown(context.Background()))
	require.NoError(t, j.CoShutdown(context.Background()))
	assert.Equal(t, 1, calls)
}
