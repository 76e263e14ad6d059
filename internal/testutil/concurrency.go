package testutil

import "sync/atomic"

// ConcurrencyGauge tracks the simultaneously-running count of a group of
// jobs, letting tests assert spec.md §8's "count(state==running) <=
// jobs_window" invariant directly instead of inferring it from timing.
type ConcurrencyGauge struct {
	current atomic.Int64
	peak    atomic.Int64
}

// Enter increments the running count and updates the observed peak.
func (g *ConcurrencyGauge) Enter() {
	n := g.current.Add(1)
	for {
		peak := g.peak.Load()
		if n <= peak || g.peak.CompareAndSwap(peak, n) {
			return
		}
	}
}

// Leave decrements the running count.
func (g *ConcurrencyGauge) Leave() { g.current.Add(-1) }

// Peak returns the highest concurrently-running count observed.
func (g *ConcurrencyGauge) Peak() int { return int(g.peak.Load()) }
