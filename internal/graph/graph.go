package graph

import (
	"context"

	"github.com/specialistvlad/asyncjobs/internal/job"
	"github.com/specialistvlad/asyncjobs/internal/topology"
	"github.com/specialistvlad/asyncjobs/internal/topologystore"
)

// Graph is a high-level, read-mostly facade over one scheduler's
// requirement graph: it composes a topologystore.Store with the pure
// functions in package topology so the scheduler has a single dependency
// for admission, sanity-checking, and pruning.
type Graph struct {
	store topologystore.Store
}

// New wraps store in a Graph facade.
func New(store topologystore.Store) *Graph {
	return &Graph{store: store}
}

// Store exposes the underlying store for callers (principally the
// scheduler) that need direct structural access alongside the derived
// analyses below.
func (g *Graph) Store() topologystore.Store { return g.store }

func (g *Graph) Add(r job.Runnable) bool { return g.store.AddJob(r) }

func (g *Graph) Remove(r job.Runnable) { g.store.RemoveJob(r) }

func (g *Graph) CheckCycles() bool { return topology.CheckCycles(g.store) }

func (g *Graph) Sanitize(ctx context.Context) int { return topology.Sanitize(ctx, g.store) }

func (g *Graph) Predecessors(r job.Runnable) []job.Runnable { return topology.Predecessors(g.store, r) }

func (g *Graph) Successors(r job.Runnable) []job.Runnable { return topology.Successors(g.store, r) }

func (g *Graph) PredecessorsUpstream(start []job.Runnable) []job.Runnable {
	return topology.PredecessorsUpstream(g.store, start)
}

func (g *Graph) SuccessorsDownstream(start []job.Runnable) []job.Runnable {
	return topology.SuccessorsDownstream(g.store, start)
}

func (g *Graph) BypassAndRemove(r job.Runnable) { topology.BypassAndRemove(g.store, r) }

func (g *Graph) KeepOnly(keep []job.Runnable) { topology.KeepOnly(g.store, keep) }

func (g *Graph) KeepOnlyBetween(starts, ends []job.Runnable) {
	topology.KeepOnlyBetween(g.store, starts, ends)
}

func (g *Graph) TopologicalOrder() []job.Runnable { return topology.TopologicalOrder(g.store) }

func (g *Graph) EntryJobs() []job.Runnable { return topology.EntryJobs(g.store) }

func (g *Graph) ExitJobs() []job.Runnable { return topology.ExitJobs(g.store) }

func (g *Graph) Jobs() []job.Runnable { return g.store.Jobs() }
