// Implements the ProcessQueue, the FIFO used for the ready, waiting and terminated queues.

package sim

import (
	"fmt"
	"strings"
)

// ProcessQueue represents a FIFO queue of processes.
// It is not safe for concurrent use; QueueSet serializes access.
type ProcessQueue struct {
	queue []*Process // FIFO queue of processes
}

// Enqueue adds a process to the back of the queue.
func (pq *ProcessQueue) Enqueue(p *Process) {
	if p == nil {
		panic("Enqueue: p must not be nil")
	}
	pq.queue = append(pq.queue, p)
}

func (pq *ProcessQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range pq.queue {
		sb.WriteString(fmt.Sprint(p.PID))
		if i < len(pq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of processes in the queue.
func (pq *ProcessQueue) Len() int {
	return len(pq.queue)
}

// Peek returns the process at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (pq *ProcessQueue) Peek() *Process {
	if len(pq.queue) == 0 {
		return nil
	}
	return pq.queue[0]
}

// Dequeue removes and returns the process at the front of the queue.
// Returns nil if the queue is empty.
func (pq *ProcessQueue) Dequeue() *Process {
	if len(pq.queue) == 0 {
		return nil
	}
	p := pq.queue[0]
	pq.queue[0] = nil
	pq.queue = pq.queue[1:]
	return p
}

// Remove deletes p from the queue by identity, preserving the order of the rest.
// Returns false when p is not queued.
func (pq *ProcessQueue) Remove(p *Process) bool {
	for i, q := range pq.queue {
		if q == p {
			pq.queue = append(pq.queue[:i], pq.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether p is in the queue.
func (pq *ProcessQueue) Contains(p *Process) bool {
	for _, q := range pq.queue {
		if q == p {
			return true
		}
	}
	return false
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage -- callers within the
// sim package may iterate over it but MUST NOT append to or reslice it.
// For reordering, use Reorder() instead.
func (pq *ProcessQueue) Items() []*Process {
	return pq.queue
}

// PIDs returns a copy of the queued pids in queue order.
func (pq *ProcessQueue) PIDs() []int64 {
	pids := make([]int64, len(pq.queue))
	for i, p := range pq.queue {
		pids[i] = p.PID
	}
	return pids
}

// Reorder applies fn to the queue contents, allowing in-place reordering.
// DispatchPolicy.OrderQueue is the primary consumer:
//
//	pq.Reorder(policy.OrderQueue)
//
// fn receives the underlying slice and may sort it in-place.
// fn MUST NOT change the slice length (no append/delete).
func (pq *ProcessQueue) Reorder(fn func([]*Process)) {
	if fn == nil {
		panic("Reorder: fn must not be nil")
	}
	n := len(pq.queue)
	fn(pq.queue)
	if len(pq.queue) != n {
		panic(fmt.Sprintf("Reorder: fn changed queue length from %d to %d", n, len(pq.queue)))
	}
}
