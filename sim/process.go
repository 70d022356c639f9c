// Defines the Process struct (the process control block) that models one simulated process.
// Tracks scheduling attributes, run-time accounting, program location and lifecycle state.

package sim

import (
	"cmp"
	"fmt"

	"github.com/markphelps/optional"
)

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	StateNew        ProcessState = "new" // created, not yet admitted by a scheduler
	StateReady      ProcessState = "ready"
	StateRunning    ProcessState = "running"
	StateBlocked    ProcessState = "blocked"
	StateTerminated ProcessState = "terminated"
)

// BlockReason tells apart the two meanings of StateBlocked.
// It is only meaningful while the process is blocked.
type BlockReason string

const (
	BlockNone BlockReason = ""
	// BlockPending: the process has not arrived yet (arrival time in the future).
	BlockPending BlockReason = "pending"
	// BlockOnInput: the process executed an input read and waits for data.
	BlockOnInput BlockReason = "input"
)

// legalTransitions lists every edge of the process state machine.
// StateTerminated has no outgoing edges.
var legalTransitions = map[ProcessState][]ProcessState{
	StateNew:     {StateReady, StateBlocked},
	StateReady:   {StateRunning, StateTerminated},
	StateRunning: {StateReady, StateBlocked, StateTerminated},
	StateBlocked: {StateReady},
}

// Process models a single process's lifecycle in the simulation.
// Attributes are fixed at creation; state and counters are mutated only by the Scheduler.
type Process struct {
	PID   int64 // Unique process identifier
	Index int   // Creation order, used to compute the program store offset

	Priority     int   // Higher value = dispatched first by priority-aware policies
	ArrivalTime  int64 // Tick at which the process becomes eligible
	TotalRunTime int64 // Ticks of execution needed to finish
	UsedRunTime  int64 // Ticks consumed so far

	UsedTimeSlices     int // Number of dispatches received
	RemainingTimeSlice int // Ticks left in the current dispatch

	CodeStart      int // Offset into the program store
	CodeLength     int // Number of loaded instruction lines
	ProgramCounter int // Next instruction to fetch, relative to CodeStart

	State        ProcessState
	Block        BlockReason
	InputReadyAt int64 // Tick at which pending input becomes available (BlockOnInput only)

	// Parent is a non-owning back-reference by pid, resolved through the ProcessTable.
	// Never consulted by dispatch.
	Parent optional.Int64

	Context     Context
	Stack       CallStack
	MemoryUsage int // Store lines occupied by the loaded program

	FirstDispatch  int64 // Tick of the first dispatch, -1 until dispatched
	CompletionTime int64 // Tick at which the process terminated, -1 until then
}

// NewProcess creates a process in StateNew with zeroed counters.
// Index is assigned later by ProcessTable.Add.
func NewProcess(pid int64, priority int, arrivalTime int64, totalRunTime int64) *Process {
	return &Process{
		PID:            pid,
		Priority:       priority,
		ArrivalTime:    arrivalTime,
		TotalRunTime:   totalRunTime,
		State:          StateNew,
		Context:        NewContext(),
		FirstDispatch:  -1,
		CompletionTime: -1,
	}
}

// Remaining returns the ticks of run time still owed to the process.
func (p *Process) Remaining() int64 {
	return p.TotalRunTime - p.UsedRunTime
}

// Finished reports whether the process has consumed its whole run time.
func (p *Process) Finished() bool {
	return p.UsedRunTime >= p.TotalRunTime
}

// AccumulateRunTime adds n ticks of used run time.
// Overshooting TotalRunTime is an invariant violation and leaves the record unchanged.
func (p *Process) AccumulateRunTime(n int64) error {
	if n < 0 || p.UsedRunTime+n > p.TotalRunTime {
		return fmt.Errorf("%w: process %d run time %d+%d exceeds total %d",
			ErrInvariantViolation, p.PID, p.UsedRunTime, n, p.TotalRunTime)
	}
	p.UsedRunTime += n
	return nil
}

// UseTimeSlice records one more dispatch and grants a fresh slice of the given length.
func (p *Process) UseTimeSlice(length int) {
	p.UsedTimeSlices++
	p.RemainingTimeSlice = length
}

// SetCodeLocation records where the process's program lives in the store.
func (p *Process) SetCodeLocation(start, length int) {
	p.CodeStart = start
	p.CodeLength = length
}

// Transition moves the process to state to, enforcing the state machine.
// Any reason other than BlockNone is only accepted together with StateBlocked.
func (p *Process) Transition(to ProcessState, reason BlockReason) error {
	if (to == StateBlocked) != (reason != BlockNone) {
		return fmt.Errorf("%w: process %d: block reason %q with state %s",
			ErrInvariantViolation, p.PID, reason, to)
	}
	for _, next := range legalTransitions[p.State] {
		if next == to {
			p.State = to
			p.Block = reason
			return nil
		}
	}
	return fmt.Errorf("%w: process %d: %s -> %s",
		ErrInvalidTransition, p.PID, p.State, to)
}

// ComparePriority orders processes for priority-first dispatch:
// higher Priority first, then earlier ArrivalTime, then lower PID.
// It returns a negative number when a should be dispatched before b.
func ComparePriority(a, b *Process) int {
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ArrivalTime, b.ArrivalTime); c != 0 {
		return c
	}
	return cmp.Compare(a.PID, b.PID)
}

// CompareArrival orders processes first-come-first-served: earlier ArrivalTime, then lower PID.
func CompareArrival(a, b *Process) int {
	if c := cmp.Compare(a.ArrivalTime, b.ArrivalTime); c != 0 {
		return c
	}
	return cmp.Compare(a.PID, b.PID)
}

// This method returns a human-readable string representation of a Process.
func (p *Process) String() string {
	state := string(p.State)
	if p.State == StateBlocked {
		state += "(" + string(p.Block) + ")"
	}
	return fmt.Sprintf("Process: (PID: %d, State: %s, Priority: %d, Arrival: %d, Run: %d/%d, PC: %d/%d)",
		p.PID, state, p.Priority, p.ArrivalTime, p.UsedRunTime, p.TotalRunTime, p.ProgramCounter, p.CodeLength)
}
