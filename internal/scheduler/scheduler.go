package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specialistvlad/asyncjobs/internal/ctxlog"
	"github.com/specialistvlad/asyncjobs/internal/graph"
	"github.com/specialistvlad/asyncjobs/internal/inmemorytopology"
	"github.com/specialistvlad/asyncjobs/internal/job"
)

// Reason names why a scheduler run finished. It is exposed via Why,
// FailedCritical and FailedTimeOut for post-mortem inspection (spec.md
// §6.1/§6.3).
type Reason int32

const (
	ReasonNone Reason = iota
	ReasonOK
	ReasonTimedOut
	ReasonCriticalFailure
	ReasonCancelled
)

func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonTimedOut:
		return "timed_out"
	case ReasonCriticalFailure:
		return "critical_failure"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// Schedulable is anything Add/Update can absorb: a bare job.Job or a
// sequence.Sequence. It is declared locally, rather than importing package
// sequence, to keep the dependency direction sequence -> scheduler.
type Schedulable interface {
	Jobs() []job.Runnable
}

type completion struct {
	r       job.Runnable
	outcome *job.Outcome
}

// Scheduler is the pure, non-nestable runtime engine (spec.md §4.4). See
// NestedScheduler for the composable, job-shaped flavor.
type Scheduler struct {
	cfg Config
	g   *graph.Graph

	// runMu serializes CoRun invocations; the engine assumes one driving
	// caller at a time (spec.md §5's single-mutation-owner model).
	runMu sync.Mutex

	reasonMu   sync.Mutex
	reason     Reason
	criticalErr error
}

// New constructs a Scheduler with the given policy and an empty graph.
func New(cfg Config) *Scheduler {
	return &Scheduler{
		cfg: cfg,
		g:   graph.New(inmemorytopology.New()),
	}
}

// Graph exposes the underlying facade for callers that need direct
// structural access (used by NestedScheduler and by tests).
func (s *Scheduler) Graph() *graph.Graph { return s.g }

// Add registers item's flattened jobs and wires the requirement edges each
// one already declared via Requires/Sequence. Returns the inserted
// Runnables. Re-adding an already-present job does not insert it twice;
// its currently declared requirement edges are recorded again, and edges
// already in the store are not duplicated.
func (s *Scheduler) Add(item Schedulable) []job.Runnable {
	jobs := item.Jobs()
	for _, r := range jobs {
		s.g.Add(r)
	}
	for _, r := range jobs {
		for _, prereq := range r.Required() {
			s.g.Store().AddRequirement(r, prereq)
		}
	}
	return jobs
}

// Update bulk-adds several Schedulables.
func (s *Scheduler) Update(items ...Schedulable) {
	for _, it := range items {
		s.Add(it)
	}
}

func (s *Scheduler) Remove(r job.Runnable) { s.g.Remove(r) }

func (s *Scheduler) BypassAndRemove(r job.Runnable) { s.g.BypassAndRemove(r) }

func (s *Scheduler) KeepOnly(jobs ...job.Runnable) { s.g.KeepOnly(jobs) }

func (s *Scheduler) KeepOnlyBetween(starts, ends []job.Runnable) {
	s.g.KeepOnlyBetween(starts, ends)
}

func (s *Scheduler) Sanitize(ctx context.Context) int { return s.g.Sanitize(ctx) }

func (s *Scheduler) CheckCycles() bool { return s.g.CheckCycles() }

// EntryJobs returns the jobs with no requirement.
func (s *Scheduler) EntryJobs() []job.Runnable { return s.g.EntryJobs() }

// ExitJobs returns the jobs with no dependent.
func (s *Scheduler) ExitJobs() []job.Runnable { return s.g.ExitJobs() }

// IterateJobs walks this scheduler's jobs, recursing into any nested
// scheduler it directly contains. When flatten is true, a NestedScheduler
// itself is omitted from the result and only its descendants are yielded;
// when false, the nested scheduler is yielded in place of its contents
// (purescheduler.py's iterate_jobs(..., scheduler=False/True)).
func (s *Scheduler) IterateJobs(flatten bool) []job.Runnable {
	var out []job.Runnable
	for _, r := range s.g.Jobs() {
		if nested, ok := r.(*NestedScheduler); ok {
			if !flatten {
				out = append(out, nested)
				continue
			}
			out = append(out, nested.IterateJobs(flatten)...)
			continue
		}
		out = append(out, r)
	}
	return out
}

// Run is the synchronous entry point spec.md §6.1 calls scheduler.run(): in
// Go there is no separate async/sync pair, so Run is CoRun with a
// convenience nil-context default.
func (s *Scheduler) Run(ctx context.Context) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.CoRun(ctx)
}

// CoRun is the runtime engine's entry point: admission, ready-set
// advancement, timeout/cancellation racing, termination, and teardown, in
// that order (spec.md §4.4).
func (s *Scheduler) CoRun(ctx context.Context) (bool, error) {
	if !s.runMu.TryLock() {
		return false, ErrAlreadyRunning
	}
	defer s.runMu.Unlock()

	logger := ctxlog.FromContext(ctx)
	jobs := s.g.Jobs()
	if len(jobs) == 0 {
		return false, ErrNoEntryPoint
	}
	if !s.g.CheckCycles() {
		return false, ErrCycleDetected
	}

	if allDone(jobs) {
		logger.Debug("scheduler: all jobs already done, re-run is a no-op", "label", s.cfg.Label)
		s.setReason(ReasonOK, nil)
		return true, nil
	}

	for _, r := range jobs {
		r.ResolveCritical(s.cfg.Critical)
	}

	runCtx, cancel := s.armDeadline(ctx)
	defer cancel()

	var sem *semaphore.Weighted
	if s.cfg.JobsWindow > 0 {
		sem = semaphore.NewWeighted(int64(s.cfg.JobsWindow))
	}

	pending := make(map[string]job.Runnable, len(jobs))
	for _, r := range jobs {
		if !r.IsDone() {
			pending[r.ID()] = r
		}
	}
	inFlight := make(map[string]job.Runnable)
	completions := make(chan completion, len(jobs))

	dispatch := func() {
		s.dispatchReady(runCtx, jobs, pending, inFlight, sem, completions, logger)
	}
	dispatch()
	if len(inFlight) == 0 {
		return false, ErrNoEntryPoint
	}

	reason := ReasonNone
	var criticalErr error

loop:
	for {
		if len(inFlight) == 0 {
			// Nothing running and dispatch() has already been tried:
			// either every non-forever job is genuinely done (a
			// forever-only scheduler never reaches this with anything
			// in flight, since its forever jobs are dispatched up
			// front), or a job's prerequisite will never resolve (e.g.
			// a cross-scheduler edge Sanitize never dropped). Either way nothing will
			// ever complete again, so stop rather than block forever.
			reason = ReasonOK
			break loop
		}
		select {
		case <-runCtx.Done():
			if ctx.Err() != nil {
				reason = ReasonCancelled
			} else {
				reason = ReasonTimedOut
			}
			break loop
		case c := <-completions:
			delete(inFlight, c.r.ID())
			if !c.r.IsDone() {
				c.r.MarkDone(c.outcome)
			}
			logger.Debug("scheduler: job settled", "label", c.r.Label(),
				"exception", c.outcome.Exception, "cancelled", c.outcome.Cancelled)
			if c.outcome.Exception != nil && c.r.Critical() {
				reason = ReasonCriticalFailure
				criticalErr = c.outcome.Exception
				break loop
			}
			dispatch()
			// Only check the non-forever-done predicate after actually
			// observing a completion (purescheduler.py's co_run checks
			// the done-count the same way): a forever-only scheduler
			// must keep running until its deadline or cancellation,
			// not succeed the instant nonForeverRemaining is trivially
			// zero (spec.md §8 scenario 4).
			if s.nonForeverRemaining(jobs) == 0 {
				// A forever job only ever completes by being cancelled,
				// which happens exactly when runCtx is done — so this
				// branch can race the runCtx.Done() case above on the
				// very completion that makes nonForeverRemaining hit
				// zero. Defer to whatever already cancelled runCtx
				// instead of reporting OK out from under it.
				if runCtx.Err() != nil {
					if ctx.Err() != nil {
						reason = ReasonCancelled
					} else {
						reason = ReasonTimedOut
					}
				} else {
					reason = ReasonOK
				}
				break loop
			}
		}
	}

	s.setReason(reason, criticalErr)
	return s.teardown(ctx, cancel, jobs, inFlight, completions, reason, criticalErr)
}

func (s *Scheduler) armDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, s.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

func allDone(jobs []job.Runnable) bool {
	for _, r := range jobs {
		if !r.IsDone() {
			return false
		}
	}
	return true
}

// nonForeverRemaining counts jobs that are neither forever nor done — the
// termination predicate of spec.md §4.4.4.
func (s *Scheduler) nonForeverRemaining(jobs []job.Runnable) int {
	n := 0
	for _, r := range jobs {
		if !r.Forever() && !r.IsDone() {
			n++
		}
	}
	return n
}

// dispatchReady moves fulfilled jobs from pending to in-flight, respecting
// the concurrency window, in the store's insertion order.
func (s *Scheduler) dispatchReady(
	ctx context.Context,
	ordered []job.Runnable,
	pending, inFlight map[string]job.Runnable,
	sem *semaphore.Weighted,
	completions chan completion,
	logger interface {
		Debug(string, ...any)
	},
) {
	for _, r := range ordered {
		if _, isPending := pending[r.ID()]; !isPending {
			continue
		}
		if !s.prerequisitesDone(r) {
			continue
		}
		if s.cfg.JobsWindow > 0 && len(inFlight) >= s.cfg.JobsWindow {
			break
		}
		if sem != nil && !sem.TryAcquire(1) {
			break
		}
		delete(pending, r.ID())
		inFlight[r.ID()] = r
		r.MarkScheduled()
		r.MarkRunning()
		logger.Debug("scheduler: dispatching job", "label", r.Label())
		go s.runOne(ctx, r, sem, completions)
	}
}

func (s *Scheduler) prerequisitesDone(r job.Runnable) bool {
	for _, prereq := range s.g.Predecessors(r) {
		if !prereq.IsDone() {
			return false
		}
	}
	return true
}

func (s *Scheduler) runOne(ctx context.Context, r job.Runnable, sem *semaphore.Weighted, out chan completion) {
	value, err := r.CoRun(ctx)
	outcome := &job.Outcome{}
	switch {
	case err != nil && ctx.Err() != nil:
		outcome.Cancelled = true
	case err != nil:
		outcome.Exception = err
	default:
		outcome.Value = value
	}
	// Release the window slot before reporting the completion, so the
	// dispatch that follows it in CoRun can reuse the slot.
	if sem != nil {
		sem.Release(1)
	}
	out <- completion{r: r, outcome: outcome}
}

// teardown implements spec.md §4.4.5: cancel in-flight jobs, await
// settlement within the grace period, broadcast CoShutdown to every job,
// then determine the return value.
func (s *Scheduler) teardown(
	ctx context.Context,
	cancel context.CancelFunc,
	jobs []job.Runnable,
	inFlight map[string]job.Runnable,
	completions chan completion,
	reason Reason,
	criticalErr error,
) (bool, error) {
	logger := ctxlog.FromContext(ctx)
	grace := s.cfg.shutdownGrace()

	// Step 1: cancel every in-flight job before awaiting its settlement.
	// Safe to call more than once; CoRun's own deferred cancel later is a
	// no-op by the time it runs.
	cancel()

	if len(inFlight) > 0 {
		deadline := time.NewTimer(grace)
		defer deadline.Stop()
	awaitLoop:
		for len(inFlight) > 0 {
			select {
			case c := <-completions:
				if _, ok := inFlight[c.r.ID()]; !ok {
					continue
				}
				delete(inFlight, c.r.ID())
				if !c.r.IsDone() {
					c.r.MarkDone(c.outcome)
				}
			case <-deadline.C:
				logger.Warn("scheduler: shutdown grace period exceeded, abandoning stragglers",
					"count", len(inFlight))
				break awaitLoop
			}
		}
		for _, r := range inFlight {
			if !r.IsDone() {
				r.MarkDone(&job.Outcome{Cancelled: true})
			}
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), grace)
	defer shutdownCancel()
	var eg errgroup.Group
	for _, r := range jobs {
		r := r
		eg.Go(func() error {
			if err := r.CoShutdown(shutdownCtx); err != nil {
				logger.Error("scheduler: co_shutdown raised, swallowing", "label", r.Label(), "error", err)
			}
			return nil
		})
	}
	_ = eg.Wait()

	switch reason {
	case ReasonOK:
		return true, nil
	default:
		err := s.reasonError(reason, criticalErr)
		if s.cfg.Critical {
			return false, err
		}
		return false, nil
	}
}

func (s *Scheduler) reasonError(reason Reason, criticalErr error) error {
	switch reason {
	case ReasonCriticalFailure:
		return fmt.Errorf("%w: %w", ErrCriticalFailure, criticalErr)
	case ReasonTimedOut:
		return ErrTimedOut
	case ReasonCancelled:
		return ErrCancelled
	default:
		return nil
	}
}

func (s *Scheduler) setReason(reason Reason, criticalErr error) {
	s.reasonMu.Lock()
	s.reason = reason
	s.criticalErr = criticalErr
	s.reasonMu.Unlock()
}

// Shutdown invokes CoShutdown on every job this scheduler owns. Unlike the
// automatic per-run teardown, this is the explicit call spec.md §4.4.5
// describes for long-lived resources the user wants released outside of a
// run's own lifecycle.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var eg errgroup.Group
	for _, r := range s.g.Jobs() {
		r := r
		eg.Go(func() error {
			if err := r.CoShutdown(ctx); err != nil {
				logger.Error("scheduler: co_shutdown raised during explicit shutdown", "label", r.Label(), "error", err)
				return err
			}
			return nil
		})
	}
	return eg.Wait()
}
