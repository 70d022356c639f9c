package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueSet_Snapshot_IsConsistentAndIdempotent(t *testing.T) {
	// GIVEN a queue set with a process in every place
	qs := NewQueueSet()
	qs.ready.Enqueue(NewProcess(2, 0, 0, 1))
	qs.ready.Enqueue(NewProcess(5, 0, 0, 1))
	qs.waiting.Enqueue(NewProcess(3, 0, 0, 1))
	qs.terminated.Enqueue(NewProcess(1, 0, 0, 1))
	qs.running = NewProcess(4, 0, 0, 1)
	qs.clock = 12

	// WHEN two snapshots are taken back to back
	first := qs.Snapshot()
	second := qs.Snapshot()

	// THEN they are equal and nothing was dequeued
	assert.Equal(t, first, second)
	assert.Equal(t, QueueSnapshot{
		Clock:      12,
		Running:    4,
		Ready:      []int64{2, 5},
		Waiting:    []int64{3},
		Terminated: []int64{1},
	}, first)
	assert.Equal(t, 2, qs.ready.Len())
}

func TestQueueSet_Snapshot_IsACopy(t *testing.T) {
	qs := NewQueueSet()
	qs.ready.Enqueue(NewProcess(1, 0, 0, 1))

	snap := qs.Snapshot()
	snap.Ready[0] = 99

	assert.Equal(t, []int64{1}, qs.ready.PIDs())
}

func TestQueueSnapshot_String(t *testing.T) {
	snap := QueueSnapshot{Clock: 7, Ready: []int64{2, 3}, Terminated: []int64{1}}

	want := "Queue Status at tick 7:\n" +
		"Ready Queue: 2 3\n" +
		"Waiting Queue: \n" +
		"Terminated Queue: 1\n"
	assert.Equal(t, want, snap.String())

	snap.Running = 4
	assert.Contains(t, snap.String(), "Running: 4\n")
}

func TestQueueSet_Now(t *testing.T) {
	qs := NewQueueSet()
	assert.Equal(t, int64(0), qs.Now())
	qs.clock = 42
	assert.Equal(t, int64(42), qs.Now())
}
