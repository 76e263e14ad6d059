// Package sequence provides a syntactic convenience for chaining jobs: it
// wires requirement edges so that each job in the sequence requires the
// one before it. A Sequence is not itself a runtime entity and carries no
// state of its own; see purescheduler's sequence.py for the original this
// is grounded on.
package sequence

import "github.com/specialistvlad/asyncjobs/internal/job"

// Schedulable is anything that can appear as an element of a Sequence: a
// bare Job, or another Sequence (which flattens).
type Schedulable interface {
	Jobs() []job.Runnable
}

// requirer is implemented by job.Job and scheduler.NestedScheduler; it is
// declared locally to avoid sequence depending on package scheduler.
type requirer interface {
	Requires(remove bool, others ...job.Runnable)
}

// Sequence is a flattened, ordered list of Runnables with requirement
// edges already wired tail-to-head.
type Sequence struct {
	items []job.Runnable
}

// New flattens items (recursively, since a Sequence is itself Schedulable)
// and adds "j[i] requires j[i-1]" edges across the flattened list.
func New(items ...Schedulable) *Sequence {
	s := &Sequence{}
	for _, it := range items {
		s.items = append(s.items, it.Jobs()...)
	}
	s.wire(0)
	return s
}

// wire adds requirement edges starting at index from (exclusive of the
// element immediately before it, which is assumed already wired).
func (s *Sequence) wire(from int) {
	if from == 0 {
		from = 1
	}
	for i := from; i < len(s.items); i++ {
		if r, ok := s.items[i].(requirer); ok {
			r.Requires(false, s.items[i-1])
		}
	}
}

// Append extends the sequence with more items, wiring the new head to the
// previous tail.
func (s *Sequence) Append(items ...Schedulable) *Sequence {
	start := len(s.items)
	for _, it := range items {
		s.items = append(s.items, it.Jobs()...)
	}
	if start > 0 {
		s.wire(start)
	} else {
		s.wire(0)
	}
	return s
}

// Requires wires the sequence's first element to require others, so the
// whole chain starts only once they are done.
func (s *Sequence) Requires(remove bool, others ...job.Runnable) {
	if len(s.items) == 0 {
		return
	}
	if r, ok := s.items[0].(requirer); ok {
		r.Requires(remove, others...)
	}
}

// Jobs implements Schedulable, letting a Sequence nest inside another one.
func (s *Sequence) Jobs() []job.Runnable { return s.items }
