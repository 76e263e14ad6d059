package scheduler

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/asyncjobs/internal/job"
)

// NestedScheduler is a Scheduler wearing a job.Runnable's clothes: it
// embeds a pure *Scheduler and adds the identity, flags, and requirement
// set an outer scheduler needs to treat it as a single opaque job
// (spec.md §4.5). Composition, not inheritance, is the Go rendition of the
// original asynciojobs library's Scheduler(PureScheduler, AbstractJob)
// mixin (see DESIGN.md).
//
// Critical is intentionally not duplicated here: NestedScheduler.Critical
// reads the embedded Scheduler's own Config.Critical, exactly as the
// original shares one `critical` attribute between the two roles. That
// single field decides both whether the inner run's own failure is raised
// as this job's exception, and whether the outer scheduler treats this job
// as critical.
type NestedScheduler struct {
	*Scheduler

	id      string
	forever bool

	reqMu    sync.Mutex
	required map[job.Runnable]struct{}

	state atomic.Int32

	outcomeMu sync.Mutex
	outcome   *job.Outcome
}

// NewNested constructs a nestable scheduler with its own policy. Use it in
// place of a Job wherever the outer scheduler's Add/Update accepts a
// Schedulable.
func NewNested(cfg Config) *NestedScheduler {
	return &NestedScheduler{
		Scheduler: New(cfg),
		id:        job.NextID(),
		forever:   cfg.Forever,
		required:  make(map[job.Runnable]struct{}),
	}
}

func (n *NestedScheduler) ID() string { return n.id }

func (n *NestedScheduler) Label() string {
	if n.cfg.Label != "" {
		return n.cfg.Label
	}
	return "scheduler"
}

func (n *NestedScheduler) Critical() bool { return n.cfg.Critical }

// ResolveCritical is a no-op: a nested scheduler's criticality is always
// its own explicit Config.Critical, never inherited from the enclosing
// scheduler's default (the original never lets a nested Scheduler's
// critical flag come from anywhere but its own construction).
func (n *NestedScheduler) ResolveCritical(defaultCritical bool) {}

func (n *NestedScheduler) Forever() bool { return n.forever }

func (n *NestedScheduler) State() job.State { return job.State(n.state.Load()) }
func (n *NestedScheduler) IsIdle() bool      { return n.State() == job.Idle }
func (n *NestedScheduler) IsScheduled() bool { return n.State() == job.Scheduled }
func (n *NestedScheduler) IsRunning() bool   { return n.State() == job.Running }
func (n *NestedScheduler) IsDone() bool      { return n.State() == job.Done }

func (n *NestedScheduler) MarkScheduled() { n.state.Store(int32(job.Scheduled)) }
func (n *NestedScheduler) MarkRunning()   { n.state.Store(int32(job.Running)) }

func (n *NestedScheduler) MarkDone(outcome *job.Outcome) {
	n.outcomeMu.Lock()
	n.outcome = outcome
	n.outcomeMu.Unlock()
	n.state.Store(int32(job.Done))
}

func (n *NestedScheduler) Outcome() *job.Outcome {
	n.outcomeMu.Lock()
	defer n.outcomeMu.Unlock()
	return n.outcome
}

// RaisedException returns the stored outcome's exception, or nil if there
// is none (including when the nested scheduler is not yet done).
func (n *NestedScheduler) RaisedException() error {
	o := n.Outcome()
	if o == nil {
		return nil
	}
	return o.Exception
}

func (n *NestedScheduler) Required() []job.Runnable {
	n.reqMu.Lock()
	defer n.reqMu.Unlock()
	out := make([]job.Runnable, 0, len(n.required))
	for r := range n.required {
		out = append(out, r)
	}
	return out
}

func (n *NestedScheduler) Requires(remove bool, others ...job.Runnable) {
	n.reqMu.Lock()
	defer n.reqMu.Unlock()
	for _, o := range others {
		if o == nil || o.ID() == n.id {
			continue
		}
		if remove {
			delete(n.required, o)
		} else {
			n.required[o] = struct{}{}
		}
	}
}

// Jobs implements the one-element Schedulable contract, letting a nested
// scheduler be added to an outer one exactly like a bare Job.
func (n *NestedScheduler) Jobs() []job.Runnable { return []job.Runnable{n} }

// CoRun runs the inner scheduler to completion. A critical-failure,
// timed-out, or cancelled inner run surfaces as this job's own error only
// when the inner scheduler is itself configured critical — see the type
// doc for why that single flag serves both roles.
func (n *NestedScheduler) CoRun(ctx context.Context) (any, error) {
	ok, err := n.Scheduler.CoRun(ctx)
	if err != nil {
		return nil, err
	}
	return ok, nil
}

// CoShutdown recursively shuts down the inner jobs. Inner CoShutdown is
// idempotent (job.Job guards it with sync.Once), so this is safe to call
// even though the inner scheduler's own teardown already invoked it once
// per spec.md §4.4.5.
func (n *NestedScheduler) CoShutdown(ctx context.Context) error {
	var eg errgroup.Group
	for _, r := range n.Scheduler.g.Jobs() {
		r := r
		eg.Go(func() error { return r.CoShutdown(ctx) })
	}
	_ = eg.Wait()
	return nil
}
