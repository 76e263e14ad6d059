package job

import "context"

// Runnable is anything a Scheduler can admit, dispatch and await: a plain
// Job, or a nested Scheduler wearing a Job's clothes (see package
// scheduler's NestedScheduler). Requirement edges are expressed over
// Runnable so a job can depend on a nested scheduler and vice versa.
type Runnable interface {
	ID() string
	Label() string

	// Critical reports whether this Runnable's failure is fatal to its
	// enclosing scheduler. ResolveCritical is called once by the
	// enclosing scheduler at admission time to apply its default when no
	// explicit value was set.
	Critical() bool
	ResolveCritical(defaultCritical bool)
	Forever() bool

	State() State
	IsIdle() bool
	IsScheduled() bool
	IsRunning() bool
	IsDone() bool
	MarkScheduled()
	MarkRunning()
	MarkDone(outcome *Outcome)
	Outcome() *Outcome
	RaisedException() error

	// Required lists the prerequisites declared directly on this
	// Runnable (via Requires), independent of any scheduler's store.
	Required() []Runnable
	Requires(remove bool, others ...Runnable)

	CoRun(ctx context.Context) (any, error)
	CoShutdown(ctx context.Context) error
}
