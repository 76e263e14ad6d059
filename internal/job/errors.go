package job

import "errors"

var (
	// ErrNotYetDone is returned by Result when the job has not reached the
	// done state yet.
	ErrNotYetDone = errors.New("job: not yet done")

	// ErrNoResult is returned by Result when the job is done but its
	// outcome is an exception or a cancellation rather than a value.
	ErrNoResult = errors.New("job: no result (exception or cancelled)")
)
