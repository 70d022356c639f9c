package sim

import (
	"slices"
	"testing"
)

func TestProcessQueue_Peek_NonEmpty_ReturnsFront(t *testing.T) {
	// GIVEN a queue with processes [1, 2]
	pq := &ProcessQueue{}
	p1 := NewProcess(1, 0, 0, 1)
	p2 := NewProcess(2, 0, 0, 1)
	pq.Enqueue(p1)
	pq.Enqueue(p2)

	// WHEN Peek() is called
	got := pq.Peek()

	// THEN it returns the front element without removing it
	if got != p1 {
		t.Errorf("Peek: got process %v, want %v", got.PID, p1.PID)
	}
	if pq.Len() != 2 {
		t.Errorf("Peek modified queue length: got %d, want 2", pq.Len())
	}
}

func TestProcessQueue_Peek_Empty_ReturnsNil(t *testing.T) {
	pq := &ProcessQueue{}
	if got := pq.Peek(); got != nil {
		t.Errorf("Peek on empty queue: got %v, want nil", got)
	}
	if got := pq.Dequeue(); got != nil {
		t.Errorf("Dequeue on empty queue: got %v, want nil", got)
	}
}

func TestProcessQueue_Dequeue_IsFIFO(t *testing.T) {
	pq := &ProcessQueue{}
	for pid := int64(1); pid <= 3; pid++ {
		pq.Enqueue(NewProcess(pid, 0, 0, 1))
	}

	var got []int64
	for pq.Len() > 0 {
		got = append(got, pq.Dequeue().PID)
	}

	if !slices.Equal(got, []int64{1, 2, 3}) {
		t.Errorf("Dequeue order: got %v, want [1 2 3]", got)
	}
}

func TestProcessQueue_Remove_PreservesOrderOfRest(t *testing.T) {
	// GIVEN a queue [1, 2, 3]
	pq := &ProcessQueue{}
	procs := []*Process{NewProcess(1, 0, 0, 1), NewProcess(2, 0, 0, 1), NewProcess(3, 0, 0, 1)}
	for _, p := range procs {
		pq.Enqueue(p)
	}

	// WHEN the middle process is removed
	removed := pq.Remove(procs[1])

	// THEN it is gone and the others keep their order
	if !removed {
		t.Fatal("Remove: got false, want true")
	}
	if got := pq.PIDs(); !slices.Equal(got, []int64{1, 3}) {
		t.Errorf("after Remove: got %v, want [1 3]", got)
	}
	if pq.Contains(procs[1]) {
		t.Error("Contains: removed process still reported")
	}
	if pq.Remove(procs[1]) {
		t.Error("Remove of absent process: got true, want false")
	}
}

func TestProcessQueue_Remove_MatchesIdentityNotPID(t *testing.T) {
	pq := &ProcessQueue{}
	pq.Enqueue(NewProcess(1, 0, 0, 1))

	if pq.Remove(NewProcess(1, 0, 0, 1)) {
		t.Error("Remove matched a different process with the same pid")
	}
}

func TestProcessQueue_String(t *testing.T) {
	pq := &ProcessQueue{}
	if got := pq.String(); got != "[]" {
		t.Errorf("String on empty queue: got %q, want %q", got, "[]")
	}
	pq.Enqueue(NewProcess(4, 0, 0, 1))
	pq.Enqueue(NewProcess(2, 0, 0, 1))
	if got := pq.String(); got != "[4 2]" {
		t.Errorf("String: got %q, want %q", got, "[4 2]")
	}
}

func TestProcessQueue_Reorder_SortsInPlace(t *testing.T) {
	pq := &ProcessQueue{}
	pq.Enqueue(NewProcess(1, 10, 0, 1))
	pq.Enqueue(NewProcess(2, 30, 0, 1))
	pq.Enqueue(NewProcess(3, 20, 0, 1))

	pq.Reorder((&PriorityFirst{}).OrderQueue)

	if got := pq.PIDs(); !slices.Equal(got, []int64{2, 3, 1}) {
		t.Errorf("Reorder: got %v, want [2 3 1]", got)
	}
}

func TestProcessQueue_Reorder_LengthChangePanics(t *testing.T) {
	pq := &ProcessQueue{}
	pq.Enqueue(NewProcess(1, 0, 0, 1))
	pq.Enqueue(NewProcess(2, 0, 0, 1))

	defer func() {
		if recover() == nil {
			t.Error("Reorder with a length-changing fn did not panic")
		}
	}()
	pq.Reorder(func(ps []*Process) {
		pq.queue = ps[:1]
	})
}

func TestProcessQueue_Enqueue_NilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Enqueue(nil) did not panic")
		}
	}()
	(&ProcessQueue{}).Enqueue(nil)
}
