package job

import (
	"context"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

// Body is the asynchronous computation a Job wraps. It is invoked exactly
// once, when the Job's state transitions to Running, and must be
// cancellation-tolerant: the scheduler cancels ctx on teardown and expects
// Body to return promptly once it does.
type Body func(ctx context.Context) (any, error)

// Config describes how a Job is constructed. Critical is a pointer so the
// scheduler can tell "explicitly set" apart from "inherit the enclosing
// scheduler's default" at admission time.
type Config struct {
	Label    string
	Critical *bool
	Forever  bool
	Required []Runnable
	// Shutdown, if set, backs CoShutdown. It is invoked at most once.
	Shutdown func(ctx context.Context) error
}

// Job is the leaf Runnable: a single wrapped computation.
type Job struct {
	id    string
	body  Body
	label string

	reqMu    sync.Mutex
	required map[Runnable]struct{}

	criticalResolved atomic.Bool
	critical         atomic.Bool
	forever          bool

	state atomic.Int32

	outcomeMu sync.Mutex
	outcome   *Outcome

	shutdown     func(ctx context.Context) error
	shutdownOnce sync.Once
}

// New constructs a Job wrapping body. A nil body is a programmer error; it
// panics immediately rather than surfacing as a confusing nil-pointer
// dereference at run time.
func New(body Body, cfg Config) *Job {
	if body == nil {
		panic("job: New called with a nil body")
	}
	j := &Job{
		id:       NextID(),
		body:     body,
		label:    cfg.Label,
		required: make(map[Runnable]struct{}),
		forever:  cfg.Forever,
	}
	if cfg.Critical != nil {
		j.critical.Store(*cfg.Critical)
		j.criticalResolved.Store(true)
	}
	if cfg.Shutdown != nil {
		j.shutdown = cfg.Shutdown
	}
	j.Requires(false, cfg.Required...)
	return j
}

func (j *Job) ID() string { return j.id }

// Label returns the explicit label if one was set, otherwise a name
// derived from the wrapped computation's own identifier.
func (j *Job) Label() string {
	if j.label != "" {
		return j.label
	}
	return funcName(j.body)
}

func funcName(body Body) string {
	full := runtime.FuncForPC(reflect.ValueOf(body).Pointer()).Name()
	if idx := strings.LastIndex(full, "."); idx >= 0 {
		full = full[idx+1:]
	}
	full = strings.TrimSuffix(full, "-fm")
	if full == "" {
		return "job"
	}
	return full
}

func (j *Job) Critical() bool { return j.critical.Load() }

// ResolveCritical applies the enclosing scheduler's default criticality if
// this Job's own was never explicitly set. It is a no-op on any later call.
func (j *Job) ResolveCritical(defaultCritical bool) {
	if j.criticalResolved.CompareAndSwap(false, true) {
		j.critical.Store(defaultCritical)
	}
}

func (j *Job) Forever() bool { return j.forever }

func (j *Job) State() State { return State(j.state.Load()) }
func (j *Job) IsIdle() bool      { return j.State() == Idle }
func (j *Job) IsScheduled() bool { return j.State() == Scheduled }
func (j *Job) IsRunning() bool   { return j.State() == Running }
func (j *Job) IsDone() bool      { return j.State() == Done }

func (j *Job) MarkScheduled() { j.state.Store(int32(Scheduled)) }
func (j *Job) MarkRunning()   { j.state.Store(int32(Running)) }

// MarkDone stores outcome and transitions to Done. It must be called at
// most once; the scheduler is the sole caller and serializes its own
// calls, so no locking is needed beyond the outcome slot itself.
func (j *Job) MarkDone(outcome *Outcome) {
	j.outcomeMu.Lock()
	j.outcome = outcome
	j.outcomeMu.Unlock()
	j.state.Store(int32(Done))
}

func (j *Job) Outcome() *Outcome {
	j.outcomeMu.Lock()
	defer j.outcomeMu.Unlock()
	return j.outcome
}

// Result returns the stored value, or ErrNotYetDone / ErrNoResult per
// spec.md §4.1.
func (j *Job) Result() (any, error) {
	if !j.IsDone() {
		return nil, ErrNotYetDone
	}
	o := j.Outcome()
	if o == nil || o.Exception != nil || o.Cancelled {
		return nil, ErrNoResult
	}
	return o.Value, nil
}

// RaisedException returns the job's stored exception, or nil if it has
// none (including when the job is not yet done).
func (j *Job) RaisedException() error {
	o := j.Outcome()
	if o == nil {
		return nil
	}
	return o.Exception
}

// Required returns the prerequisites declared via Requires, in no
// guaranteed order — the scheduler's own store is what provides
// order-stable iteration once a Job is added to it.
func (j *Job) Required() []Runnable {
	j.reqMu.Lock()
	defer j.reqMu.Unlock()
	out := make([]Runnable, 0, len(j.required))
	for r := range j.required {
		out = append(out, r)
	}
	return out
}

// Requires adds (remove == false) or removes (remove == true) prerequisite
// edges. A Job requiring itself is a defensive no-op.
func (j *Job) Requires(remove bool, others ...Runnable) {
	j.reqMu.Lock()
	defer j.reqMu.Unlock()
	for _, o := range others {
		if o == nil || o.ID() == j.id {
			continue
		}
		if remove {
			delete(j.required, o)
		} else {
			j.required[o] = struct{}{}
		}
	}
}

// Jobs implements the one-element Schedulable contract used by package
// sequence, letting a bare Job stand in wherever a Sequence is expected.
func (j *Job) Jobs() []Runnable { return []Runnable{j} }

// CoRun executes the wrapped computation. It is the default leaf
// implementation spec.md §4.1 describes; there is nothing to override it
// in this repository since nested schedulers supply their own CoRun
// instead of wrapping a Body.
func (j *Job) CoRun(ctx context.Context) (any, error) {
	return j.body(ctx)
}

// CoShutdown invokes the configured shutdown hook at most once. A panic or
// error from it is the caller's (the scheduler's) responsibility to log
// and swallow, not this method's.
func (j *Job) CoShutdown(ctx context.Context) error {
	if j.shutdown == nil {
		return nil
	}
	var err error
	j.shutdownOnce.Do(func() {
		err = j.shutdown(ctx)
	})
	return err
}
