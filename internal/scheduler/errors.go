package scheduler

import "errors"

var (
	// ErrNoEntryPoint is returned when a scheduler has no jobs, or none
	// startable, at admission time.
	ErrNoEntryPoint = errors.New("scheduler: no entry point")

	// ErrCycleDetected is returned when the requirement graph is not a DAG.
	ErrCycleDetected = errors.New("scheduler: cycle detected")

	// ErrCriticalFailure wraps the exception raised by a critical job.
	ErrCriticalFailure = errors.New("scheduler: critical job failed")

	// ErrTimedOut is the terminal reason when the global deadline fires
	// before every non-forever job is done.
	ErrTimedOut = errors.New("scheduler: timed out")

	// ErrCancelled is the terminal reason when the caller's context is
	// cancelled before every non-forever job is done.
	ErrCancelled = errors.New("scheduler: cancelled")

	// ErrAlreadyRunning is returned by Run/CoRun if called concurrently
	// with itself; the engine assumes a single driving caller.
	ErrAlreadyRunning = errors.New("scheduler: already running")
)
