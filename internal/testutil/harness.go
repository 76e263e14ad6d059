// Package testutil provides small, dependency-free helpers shared by this
// repository's _test.go files: a concurrency-safe log buffer and a timing
// recorder for asserting ordering/overlap between jobs, adapted from the
// teacher's own internal/testutil harness (SafeBuffer, ExecutionRecord)
// but retargeted at job labels instead of step names.
package testutil

import (
	"bytes"
	"sync"
	"time"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests,
// unchanged in shape from the teacher's internal/app/test_helpers.go.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// ExecutionRecord holds the start and end times for one job's run, so
// tests can assert ordering invariants like "start(J) >= done(P)" from
// spec.md §8 without relying on sleeps alone.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// Timeline is a concurrency-safe map of job label to its ExecutionRecord,
// built up by calling Start and End around each job body; Record looks a
// label's entry up afterwards.
type Timeline struct {
	mu      sync.Mutex
	records map[string]*ExecutionRecord
}

// NewTimeline returns an empty Timeline.
func NewTimeline() *Timeline {
	return &Timeline{records: make(map[string]*ExecutionRecord)}
}

// Start marks label's start time and returns its record for a later End.
func (tl *Timeline) Start(label string) *ExecutionRecord {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	rec := &ExecutionRecord{Start: time.Now()}
	tl.records[label] = rec
	return rec
}

// End marks label's end time on the record Start returned.
func (tl *Timeline) End(rec *ExecutionRecord) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	rec.End = time.Now()
}

// Record returns the ExecutionRecord for label, or nil if it was never
// started.
func (tl *Timeline) Record(label string) *ExecutionRecord {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.records[label]
}

// StartedBefore reports whether r's start precedes other's start.
func (r *ExecutionRecord) StartedBefore(other *ExecutionRecord) bool {
	return r.Start.Before(other.Start)
}

// StartedAfterEnd reports whether r started no earlier than other ended,
// the ordering invariant spec.md §8 requires between a job and its
// prerequisite.
func (r *ExecutionRecord) StartedAfterEnd(other *ExecutionRecord) bool {
	return !r.Start.Before(other.End)
}
