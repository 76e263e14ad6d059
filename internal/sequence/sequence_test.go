package sequence

import (
	"context"
	"testing"

	"github.com/specialistvlad/asyncjobs/internal/job"
	"github.com/stretchr/testify/assert"
)

func noop() (*job.Job, job.Runnable) {
	j := job.New(func(ctx context.Context) (any, error) { return nil, nil }, job.Config{})
	return j, j
}

func TestSequenceWiresLinearChain(t *testing.T) {
	j1, r1 := noop()
	j2, r2 := noop()
	j3, r3 := noop()

	New(j1, j2, j3)

	assert.Contains(t, j2.Required(), r1)
	assert.Contains(t, j3.Required(), r2)
	assert.NotContains(t, j1.Required(), r3)
}

func TestSequenceFlattensNested(t *testing.T) {
	a, ra := noop()
	b, rb := noop()
	c, rc := noop()
	d, _ := noop()

	inner := New(b, c)
	outer := New(a, inner, d)

	assert.Len(t, outer.Jobs(), 4)
	assert.Contains(t, b.Required(), ra)
	assert.Contains(t, c.Required(), rb)
	assert.Contains(t, d.Required(), rc)
}

func TestSequenceAppendWiresBoundary(t *testing.T) {
	a, _ := noop()
	b, rb := noop()
	c, _ := noop()

	s := New(a, b)
	s.Append(c)

	assert.Contains(t, c.Required(), rb)
}
