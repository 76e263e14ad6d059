// Package topology implements the pure graph analyses spec.md §4.3
// requires: cycle detection, one-step and transitive neighbor sets,
// pruning utilities, and a stable topological order. Every function here
// takes a topologystore.Store and never mutates scheduler state beyond the
// store's own edges.
package topology

import (
	"context"

	"github.com/specialistvlad/asyncjobs/internal/ctxlog"
	"github.com/specialistvlad/asyncjobs/internal/job"
	"github.com/specialistvlad/asyncjobs/internal/topologystore"
)

type color int

const (
	white color = iota
	gray
	black
)

// CheckCycles reports whether the store's graph is acyclic, via a
// standard DFS with white/gray/black coloring.
func CheckCycles(store topologystore.Store) bool {
	colors := make(map[string]color)
	var visit func(r job.Runnable) bool
	visit = func(r job.Runnable) bool {
		colors[r.ID()] = gray
		for _, prereq := range store.RequirementsOf(r) {
			switch colors[prereq.ID()] {
			case gray:
				return false
			case white:
				if !visit(prereq) {
					return false
				}
			}
		}
		colors[r.ID()] = black
		return true
	}
	for _, r := range store.Jobs() {
		if colors[r.ID()] == white {
			if !visit(r) {
				return false
			}
		}
	}
	return true
}

// Sanitize drops every requirement edge whose prerequisite is not a member
// of store, logging one warning per removal. It is idempotent: a second
// call finds nothing left to remove. Returns the number of edges dropped.
func Sanitize(ctx context.Context, store topologystore.Store) int {
	logger := ctxlog.FromContext(ctx)
	removed := 0
	for _, r := range store.Jobs() {
		for _, prereq := range store.RequirementsOf(r) {
			if store.Has(prereq) {
				continue
			}
			logger.Warn("dropping cross-scheduler requirement",
				"dependent", r.Label(), "prerequisite", prereq.Label())
			store.RemoveRequirement(r, prereq)
			removed++
		}
	}
	return removed
}

// Predecessors returns r's direct prerequisites (what it requires).
func Predecessors(store topologystore.Store, r job.Runnable) []job.Runnable {
	return store.RequirementsOf(r)
}

// Successors returns the Runnables that directly require r.
func Successors(store topologystore.Store, r job.Runnable) []job.Runnable {
	return store.DependentsOf(r)
}

// PredecessorsUpstream returns the transitive closure of Predecessors
// starting from every Runnable in start.
func PredecessorsUpstream(store topologystore.Store, start []job.Runnable) []job.Runnable {
	return closure(start, func(r job.Runnable) []job.Runnable {
		return store.RequirementsOf(r)
	})
}

// SuccessorsDownstream returns the transitive closure of Successors
// starting from every Runnable in start.
func SuccessorsDownstream(store topologystore.Store, start []job.Runnable) []job.Runnable {
	return closure(start, func(r job.Runnable) []job.Runnable {
		return store.DependentsOf(r)
	})
}

func closure(start []job.Runnable, neighbors func(job.Runnable) []job.Runnable) []job.Runnable {
	seen := make(map[string]struct{})
	var order []job.Runnable
	var visit func(r job.Runnable)
	visit = func(r job.Runnable) {
		for _, n := range neighbors(r) {
			if _, ok := seen[n.ID()]; ok {
				continue
			}
			seen[n.ID()] = struct{}{}
			order = append(order, n)
			visit(n)
		}
	}
	for _, r := range start {
		visit(r)
	}
	return order
}

// BypassAndRemove removes r from store while preserving ordering: every
// predecessor of r becomes a new prerequisite of every successor of r,
// then r and its own edges are dropped.
func BypassAndRemove(store topologystore.Store, r job.Runnable) {
	preds := store.RequirementsOf(r)
	succs := store.DependentsOf(r)
	for _, succ := range succs {
		for _, pred := range preds {
			store.AddRequirement(succ, pred)
		}
	}
	store.RemoveJob(r)
}

// KeepOnly retains exactly the given Runnables, dropping every other job
// and every edge touching it.
func KeepOnly(store topologystore.Store, keep []job.Runnable) {
	keepSet := toSet(keep)
	for _, r := range store.Jobs() {
		if _, ok := keepSet[r.ID()]; !ok {
			store.RemoveJob(r)
		}
	}
}

// KeepOnlyBetween retains jobs reachable downstream from any start AND
// upstream from any end; every other job is removed.
func KeepOnlyBetween(store topologystore.Store, starts, ends []job.Runnable) {
	downstream := toSet(append(append([]job.Runnable{}, starts...), SuccessorsDownstream(store, starts)...))
	upstream := toSet(append(append([]job.Runnable{}, ends...), PredecessorsUpstream(store, ends)...))

	var keep []job.Runnable
	for _, r := range store.Jobs() {
		_, inDown := downstream[r.ID()]
		_, inUp := upstream[r.ID()]
		if inDown && inUp {
			keep = append(keep, r)
		}
	}
	KeepOnly(store, keep)
}

func toSet(items []job.Runnable) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it.ID()] = struct{}{}
	}
	return set
}

// TopologicalOrder returns a stable linearization of store's graph, ties
// broken by insertion order. The store is assumed acyclic; call
// CheckCycles first if that is not already guaranteed.
func TopologicalOrder(store topologystore.Store) []job.Runnable {
	jobs := store.Jobs()
	done := make(map[string]struct{}, len(jobs))
	var order []job.Runnable

	for len(order) < len(jobs) {
		progressed := false
		for _, r := range jobs {
			if _, ok := done[r.ID()]; ok {
				continue
			}
			ready := true
			for _, prereq := range store.RequirementsOf(r) {
				if _, ok := done[prereq.ID()]; !ok {
					ready = false
					break
				}
			}
			if ready {
				done[r.ID()] = struct{}{}
				order = append(order, r)
				progressed = true
			}
		}
		if !progressed {
			// A cycle remains; stop rather than loop forever. Callers
			// that care should have run CheckCycles first.
			break
		}
	}
	return order
}

// EntryJobs returns the jobs with no prerequisite in the store.
func EntryJobs(store topologystore.Store) []job.Runnable {
	var out []job.Runnable
	for _, r := range store.Jobs() {
		if len(store.RequirementsOf(r)) == 0 {
			out = append(out, r)
		}
	}
	return out
}

// ExitJobs returns the jobs with no dependent in the store.
func ExitJobs(store topologystore.Store) []job.Runnable {
	var out []job.Runnable
	for _, r := range store.Jobs() {
		if len(store.DependentsOf(r)) == 0 {
			out = append(out, r)
		}
	}
	return out
}
