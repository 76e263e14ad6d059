// Package graph provides a thin, read-mostly facade over one scheduler's
// requirement graph.
//
// # Why Graph Exists
//
// Earlier designs in this lineage split structure from state across two
// stores (a topology store and a separate node-state store) and fronted
// both with a facade. That split doesn't apply here: a job.Runnable
// already carries its own state and outcome (see package job), so there
// is only one store left to front — topologystore.Store — plus the pure
// analyses in package topology. Graph still earns its keep as a facade:
// the scheduler gets one dependency instead of two, and callers don't
// need to know whether a given operation is a raw store lookup or a
// derived topology computation.
//
// # Thread-safety
//
// Graph adds no locking of its own; it is exactly as safe for concurrent
// use as the topologystore.Store it wraps (see that package's contract).
package graph
