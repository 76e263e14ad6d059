package scheduler

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/asyncjobs/internal/job"
)

// Debrief is the post-mortem report spec.md §5 (supplemented features)
// describes: a full picture of what ran, what's still pending, and which
// jobs raised, split by criticality.
type Debrief struct {
	Reason            string
	Listing           []string
	Done              int
	Ongoing           int
	Idle              int
	Total             int
	CriticalFailures  []string
	NonCriticalErrors []string
}

// List renders the canonical one-line-per-job listing spec.md §6.3
// mandates: topological rank, critical mark, exception/success mark,
// lifecycle mark, forever mark, label, outcome, and required ranks. It
// assumes the graph is acyclic; call ListSafe if that isn't guaranteed.
func (s *Scheduler) List() []string {
	jobs := s.g.TopologicalOrder()
	return s.render(jobs)
}

// ListSafe is the cyclic-tolerant variant: it falls back to insertion
// order (rather than a topological rank) when the graph may contain a
// cycle, so pending jobs still show up even though no rank can be
// computed for them.
func (s *Scheduler) ListSafe() []string {
	if s.g.CheckCycles() {
		return s.List()
	}
	return s.render(s.g.Jobs())
}

func (s *Scheduler) render(jobs []job.Runnable) []string {
	rank := make(map[string]int, len(jobs))
	for i, r := range jobs {
		rank[r.ID()] = i
	}

	lines := make([]string, 0, len(jobs))
	for i, r := range jobs {
		lines = append(lines, renderLine(i, r, s.g.Predecessors(r), rank))
	}
	return lines
}

func renderLine(rank int, r job.Runnable, requirements []job.Runnable, rankOf map[string]int) string {
	criticalMark := " "
	if r.Critical() {
		criticalMark = "*"
	}
	outcomeMark := "?"
	if r.IsDone() {
		o := r.Outcome()
		switch {
		case o == nil:
			outcomeMark = "!"
		case o.Exception != nil:
			outcomeMark = "X"
		case o.Cancelled:
			outcomeMark = "C"
		default:
			outcomeMark = "v"
		}
	}
	lifecycleMark := map[job.State]string{
		job.Idle: "i", job.Scheduled: "s", job.Running: "r", job.Done: "d",
	}[r.State()]
	foreverMark := " "
	if r.Forever() {
		foreverMark = "~"
	}
	outcomeText := "not done"
	if o := r.Outcome(); r.IsDone() && o != nil {
		switch {
		case o.Exception != nil:
			outcomeText = fmt.Sprintf("raised %v", o.Exception)
		case o.Cancelled:
			outcomeText = "cancelled"
		default:
			outcomeText = fmt.Sprintf("-> %v", o.Value)
		}
	}

	reqRanks := make([]string, 0, len(requirements))
	for _, req := range requirements {
		if rk, ok := rankOf[req.ID()]; ok {
			reqRanks = append(reqRanks, fmt.Sprintf("%d", rk))
		}
	}

	return fmt.Sprintf("%3d %s%s%s %s %s %s requires=[%s]",
		rank, criticalMark, outcomeMark, lifecycleMark, foreverMark, r.Label(), outcomeText, strings.Join(reqRanks, ","))
}

// Debrief combines List with the set of jobs that raised, split into
// critical and non-critical, and a summary of done/ongoing/idle counts.
func (s *Scheduler) Debrief() Debrief {
	jobs := s.g.Jobs()
	d := Debrief{
		Reason:  s.Why(),
		Listing: s.ListSafe(),
		Total:   len(jobs),
	}
	for _, r := range jobs {
		switch r.State() {
		case job.Done:
			d.Done++
		case job.Scheduled, job.Running:
			d.Ongoing++
		case job.Idle:
			d.Idle++
		}
		exc := r.RaisedException()
		if exc == nil {
			continue
		}
		line := fmt.Sprintf("%s: %v", r.Label(), exc)
		if r.Critical() {
			d.CriticalFailures = append(d.CriticalFailures, line)
		} else {
			d.NonCriticalErrors = append(d.NonCriticalErrors, line)
		}
	}
	return d
}

// Why returns a human-readable terminal reason, "FINE" on success, per
// spec.md §6.1 (grounded on purescheduler.py's why()/_stats()).
func (s *Scheduler) Why() string {
	s.reasonMu.Lock()
	defer s.reasonMu.Unlock()
	if s.reason == ReasonOK || s.reason == ReasonNone {
		return "FINE"
	}
	if s.criticalErr != nil {
		return fmt.Sprintf("%s: %v", s.reason, s.criticalErr)
	}
	return s.reason.String()
}

// FailedCritical reports whether the scheduler's last run ended because a
// critical job raised.
func (s *Scheduler) FailedCritical() bool {
	s.reasonMu.Lock()
	defer s.reasonMu.Unlock()
	return s.reason == ReasonCriticalFailure
}

// FailedTimeOut reports whether the scheduler's last run ended because the
// global deadline fired.
func (s *Scheduler) FailedTimeOut() bool {
	s.reasonMu.Lock()
	defer s.reasonMu.Unlock()
	return s.reason == ReasonTimedOut
}
