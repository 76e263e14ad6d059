// Package topologystore defines the interface for storing and retrieving
// the static structure of a requirement graph: the set of Runnables one
// scheduler owns, and the directed "dependent requires prerequisite" edges
// between them.
//
// # Why Topology Store Exists
//
// The topology store isolates the immutable graph structure from the
// mutable state a Runnable carries on itself (state, outcome): structure
// queries the scheduler needs for admission and ready-set advancement
// don't mix with the state transitions job.Job already owns. See
// internal/inmemorytopology for the reference in-memory implementation.
//
// # Lifecycle
//
// A Store is created once per Scheduler, populated while the caller builds
// the graph (Add/Update), and then read continuously by the scheduler's
// driving loop and by package topology's pure functions. It is discarded
// with the scheduler; nothing here is persisted across runs.
package topologystore

import "github.com/specialistvlad/asyncjobs/internal/job"

// Store holds one scheduler's requirement graph.
//
// # Thread-safety
//
// Implementations must be safe for concurrent reads (status-reporting
// methods may be called from another goroutine while a run is in flight);
// writes happen only from the scheduler's own driving goroutine, per the
// single-mutation-owner model in spec.md §5.
type Store interface {
	// AddJob registers r if not already present, returning true iff it
	// was newly added. Re-adding an already-present Runnable is a no-op,
	// per spec.md §9's Open Question decision on duplicate insertion.
	AddJob(r job.Runnable) bool

	// RemoveJob drops r and every edge touching it.
	RemoveJob(r job.Runnable)

	// Has reports whether r is a member of this store.
	Has(r job.Runnable) bool

	// AddRequirement records "dependent requires prerequisite". It never
	// fails, even when prerequisite is not a member of this store — that
	// case is a cross-scheduler requirement, left for Sanitize to detect
	// and drop opportunistically (spec.md §9), not rejected eagerly here.
	AddRequirement(dependent, prerequisite job.Runnable)

	// RemoveRequirement drops a single edge, if present.
	RemoveRequirement(dependent, prerequisite job.Runnable)

	// Jobs returns every Runnable in the store, in insertion order.
	Jobs() []job.Runnable

	// RequirementsOf returns r's direct prerequisites, in insertion order.
	RequirementsOf(r job.Runnable) []job.Runnable

	// DependentsOf returns the Runnables that directly require r.
	DependentsOf(r job.Runnable) []job.Runnable
}
