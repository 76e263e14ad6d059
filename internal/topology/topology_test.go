package topology

import (
	"context"
	"testing"

	"github.com/specialistvlad/asyncjobs/internal/inmemorytopology"
	"github.com/specialistvlad/asyncjobs/internal/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJob() *job.Job {
	return job.New(func(ctx context.Context) (any, error) { return nil, nil }, job.Config{})
}

func TestCheckCyclesDetectsCycle(t *testing.T) {
	store := inmemorytopology.New()
	a, b := newJob(), newJob()
	store.AddJob(a)
	store.AddJob(b)
	store.AddRequirement(a, b)
	store.AddRequirement(b, a)

	assert.False(t, CheckCycles(store))
}

func TestCheckCyclesAcyclic(t *testing.T) {
	store := inmemorytopology.New()
	a, b, c := newJob(), newJob(), newJob()
	store.AddJob(a)
	store.AddJob(b)
	store.AddJob(c)
	store.AddRequirement(b, a)
	store.AddRequirement(c, b)

	assert.True(t, CheckCycles(store))
}

func TestSanitizeIsIdempotent(t *testing.T) {
	store := inmemorytopology.New()
	a, outside := newJob(), newJob()
	store.AddJob(a)
	store.AddRequirement(a, outside) // outside never added: cross-scheduler edge

	first := Sanitize(context.Background(), store)
	second := Sanitize(context.Background(), store)

	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second)
	assert.Empty(t, store.RequirementsOf(a))
}

func TestBypassAndRemovePreservesReachability(t *testing.T) {
	store := inmemorytopology.New()
	a, b, c := newJob(), newJob(), newJob()
	store.AddJob(a)
	store.AddJob(b)
	store.AddJob(c)
	store.AddRequirement(b, a) // b requires a
	store.AddRequirement(c, b) // c requires b

	BypassAndRemove(store, b)

	require.False(t, store.Has(b))
	deps := store.RequirementsOf(c)
	require.Len(t, deps, 1)
	assert.Equal(t, a.ID(), deps[0].ID())
}

func TestKeepOnlyBetween(t *testing.T) {
	store := inmemorytopology.New()
	a, b, c, d := newJob(), newJob(), newJob(), newJob()
	store.AddJob(a)
	store.AddJob(b)
	store.AddJob(c)
	store.AddJob(d)
	store.AddRequirement(b, a)
	store.AddRequirement(c, b)
	store.AddRequirement(d, c)

	KeepOnlyBetween(store, []job.Runnable{a}, []job.Runnable{c})

	assert.True(t, store.Has(a))
	assert.True(t, store.Has(b))
	assert.True(t, store.Has(c))
	assert.False(t, store.Has(d))
}

func TestTopologicalOrderRespectsEdges(t *testing.T) {
	store := inmemorytopology.New()
	a, b, c := newJob(), newJob(), newJob()
	store.AddJob(a)
	store.AddJob(b)
	store.AddJob(c)
	store.AddRequirement(b, a)
	store.AddRequirement(c, b)

	order := TopologicalOrder(store)
	require.Len(t, order, 3)
	index := map[string]int{}
	for i, r := range order {
		index[r.ID()] = i
	}
	assert.Less(t, index[a.ID()], index[b.ID()])
	assert.Less(t, index[b.ID()], index[c.ID()])
}

func TestEntryAndExitJobs(t *testing.T) {
	store := inmemorytopology.New()
	a, b, c := newJob(), newJob(), newJob()
	store.AddJob(a)
	store.AddJob(b)
	store.AddJob(c)
	store.AddRequirement(b, a)
	store.AddRequirement(c, b)

	entry := EntryJobs(store)
	exit := ExitJobs(store)
	require.Len(t, entry, 1)
	require.Len(t, exit, 1)
	assert.Equal(t, a.ID(), entry[0].ID())
	assert.Equal(t, c.ID(), exit[0].ID())
}
