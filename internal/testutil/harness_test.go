package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimelineOrdering(t *testing.T) {
	tl := NewTimeline()

	recA := tl.Start("a")
	time.Sleep(5 * time.Millisecond)
	tl.End(recA)

	recB := tl.Start("b")
	tl.End(recB)

	assert.True(t, recA.StartedBefore(recB))
	assert.True(t, recB.StartedAfterEnd(recA))
}

func TestConcurrencyGaugePeak(t *testing.T) {
	var g ConcurrencyGauge
	g.Enter()
	g.Enter()
	assert.Equal(t, 2, g.Peak())
	g.Leave()
	assert.Equal(t, 2, g.Peak())
	g.Enter()
	g.Enter()
	assert.Equal(t, 3, g.Peak())
}

func TestSafeBufferConcurrentWrites(t *testing.T) {
	buf := &SafeBuffer{}
	done := make(chan struct{})
	go func() {
		buf.Write([]byte("a"))
		close(done)
	}()
	buf.Write([]byte("b"))
	<-done
	assert.Len(t, buf.String(), 2)
}
