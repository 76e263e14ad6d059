package job

import (
	"fmt"
	"sync/atomic"
)

var idSeq atomic.Uint64

// NextID returns a process-unique identifier for a new Runnable. Identity
// is not persisted across runs, matching the Non-goal that the graph and
// its results do not survive a process.
func NextID() string {
	return fmt.Sprintf("job-%d", idSeq.Add(1))
}
