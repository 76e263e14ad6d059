// Package inmemorytopology provides a simple, thread-safe, in-memory
// implementation of the topologystore.Store interface.
package inmemorytopology

import (
	"sync"

	"github.com/specialistvlad/asyncjobs/internal/job"
	"github.com/specialistvlad/asyncjobs/internal/topologystore"
)

// Store implements topologystore.Store using maps plus insertion-order
// slices, guarded by a single mutex. Iteration order matters here: spec.md
// requires ready-set tie-breaking and topological_order to be
// insertion-order-stable when an ordered set is available.
type Store struct {
	mu sync.RWMutex

	jobs  map[string]job.Runnable
	order []string

	// refs holds every Runnable this store has ever seen, whether or not
	// it is a store member — including the prerequisite side of a
	// cross-scheduler requirement, which AddRequirement never rejects
	// (spec.md §9). RequirementsOf/DependentsOf resolve through refs, not
	// through jobs, so an edge to a non-member is still observable and
	// Sanitize can find and drop it.
	refs map[string]job.Runnable

	// requireOrder[dependentID] is the ordered, de-duplicated list of
	// prerequisite IDs "dependent requires prerequisite" was recorded
	// for, in the order AddRequirement first saw each one.
	requireOrder map[string][]string
	requireSet   map[string]map[string]struct{}

	// dependentOrder is the reverse index: dependentOrder[prerequisiteID]
	// is the ordered list of IDs that require prerequisite.
	dependentOrder map[string][]string
	dependentSet   map[string]map[string]struct{}
}

// New creates a new, empty in-memory topology store.
func New() topologystore.Store {
	return &Store{
		jobs:           make(map[string]job.Runnable),
		refs:           make(map[string]job.Runnable),
		requireOrder:   make(map[string][]string),
		requireSet:     make(map[string]map[string]struct{}),
		dependentOrder: make(map[string][]string),
		dependentSet:   make(map[string]map[string]struct{}),
	}
}

func (s *Store) AddJob(r job.Runnable) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[r.ID()]; exists {
		return false
	}
	s.jobs[r.ID()] = r
	s.order = append(s.order, r.ID())
	s.refs[r.ID()] = r
	return true
}

func (s *Store) RemoveJob(r job.Runnable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.ID()
	if _, exists := s.jobs[id]; !exists {
		return
	}
	delete(s.jobs, id)
	delete(s.refs, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	delete(s.requireOrder, id)
	delete(s.requireSet, id)
	for dep, set := range s.requireSet {
		if _, ok := set[id]; ok {
			delete(set, id)
			s.requireOrder[dep] = removeID(s.requireOrder[dep], id)
		}
	}

	delete(s.dependentOrder, id)
	delete(s.dependentSet, id)
	for prereq, set := range s.dependentSet {
		if _, ok := set[id]; ok {
			delete(set, id)
			s.dependentOrder[prereq] = removeID(s.dependentOrder[prereq], id)
		}
	}
}

func removeID(ids []string, target string) []string {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func (s *Store) Has(r job.Runnable) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.jobs[r.ID()]
	return ok
}

func (s *Store) AddRequirement(dependent, prerequisite job.Runnable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dID, pID := dependent.ID(), prerequisite.ID()
	s.refs[dID] = dependent
	s.refs[pID] = prerequisite

	if s.requireSet[dID] == nil {
		s.requireSet[dID] = make(map[string]struct{})
	}
	if _, exists := s.requireSet[dID][pID]; !exists {
		s.requireSet[dID][pID] = struct{}{}
		s.requireOrder[dID] = append(s.requireOrder[dID], pID)
	}

	if s.dependentSet[pID] == nil {
		s.dependentSet[pID] = make(map[string]struct{})
	}
	if _, exists := s.dependentSet[pID][dID]; !exists {
		s.dependentSet[pID][dID] = struct{}{}
		s.dependentOrder[pID] = append(s.dependentOrder[pID], dID)
	}
}

func (s *Store) RemoveRequirement(dependent, prerequisite job.Runnable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dID, pID := dependent.ID(), prerequisite.ID()
	if set, ok := s.requireSet[dID]; ok {
		if _, exists := set[pID]; exists {
			delete(set, pID)
			s.requireOrder[dID] = removeID(s.requireOrder[dID], pID)
		}
	}
	if set, ok := s.dependentSet[pID]; ok {
		if _, exists := set[dID]; exists {
			delete(set, dID)
			s.dependentOrder[pID] = removeID(s.dependentOrder[pID], dID)
		}
	}
}

func (s *Store) Jobs() []job.Runnable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]job.Runnable, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.jobs[id])
	}
	return out
}

// RequirementsOf returns r's direct prerequisites, in the order
// AddRequirement first recorded each edge. A prerequisite that is not a
// member of this store (a cross-scheduler requirement) is still returned,
// resolved through refs — Sanitize relies on seeing it to drop the edge.
func (s *Store) RequirementsOf(r job.Runnable) []job.Runnable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveRefs(s.requireOrder[r.ID()])
}

// DependentsOf returns the Runnables that directly require r, in edge
// insertion order.
func (s *Store) DependentsOf(r job.Runnable) []job.Runnable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveRefs(s.dependentOrder[r.ID()])
}

// resolveRefs renders an ordered ID list as a Runnable slice via refs.
// Caller must hold at least a read lock.
func (s *Store) resolveRefs(ids []string) []job.Runnable {
	if len(ids) == 0 {
		return nil
	}
	out := make([]job.Runnable, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.refs[id]; ok {
			out = append(out, r)
		}
	}
	return out
}
