package sim

import (
	"fmt"
	"strings"
	"sync"
)

// QueueSet holds the simulated clock and the ready, waiting and terminated queues.
// A single mutex guards all four: the clock and queue placement are always observed together.
//
// Every process is in exactly one queue, or is the Scheduler's running process.
type QueueSet struct {
	mu         sync.Mutex
	clock      int64
	ready      ProcessQueue // FIFO of dispatchable processes
	waiting    ProcessQueue // not yet arrived, or blocked on input
	terminated ProcessQueue // completion order
	running    *Process     // held outside all queues while dispatched
}

// NewQueueSet returns an empty queue set with the clock at zero.
func NewQueueSet() *QueueSet {
	return &QueueSet{}
}

// Now returns the current simulated tick.
func (qs *QueueSet) Now() int64 {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	return qs.clock
}

// QueueSnapshot is a consistent copy of the queue contents at one tick.
type QueueSnapshot struct {
	Clock      int64
	Running    int64 // pid of the running process, 0 when the CPU is idle
	Ready      []int64
	Waiting    []int64
	Terminated []int64
}

// Snapshot copies the queue contents under the lock. It never mutates a queue.
func (qs *QueueSet) Snapshot() QueueSnapshot {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	return qs.snapshotLocked()
}

func (qs *QueueSet) snapshotLocked() QueueSnapshot {
	var running int64
	if qs.running != nil {
		running = qs.running.PID
	}
	return QueueSnapshot{
		Clock:      qs.clock,
		Running:    running,
		Ready:      qs.ready.PIDs(),
		Waiting:    qs.waiting.PIDs(),
		Terminated: qs.terminated.PIDs(),
	}
}

// String renders the snapshot as the queue status block.
func (s QueueSnapshot) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Queue Status at tick %d:\n", s.Clock)
	if s.Running != 0 {
		fmt.Fprintf(&sb, "Running: %d\n", s.Running)
	}
	fmt.Fprintf(&sb, "Ready Queue: %s\n", joinPIDs(s.Ready))
	fmt.Fprintf(&sb, "Waiting Queue: %s\n", joinPIDs(s.Waiting))
	fmt.Fprintf(&sb, "Terminated Queue: %s\n", joinPIDs(s.Terminated))
	return sb.String()
}

func joinPIDs(pids []int64) string {
	parts := make([]string, len(pids))
	for i, pid := range pids {
		parts[i] = fmt.Sprint(pid)
	}
	return strings.Join(parts, " ")
}
