// Package trace provides narration-trace recording for scheduler runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

import "fmt"

// Kind names a scheduler narration event.
type Kind string

const (
	KindAdmitted   Kind = "admitted"   // added at setup, arrival time already reached
	KindPending    Kind = "pending"    // added at setup, not arrived yet
	KindArrived    Kind = "arrived"    // pending -> ready
	KindDispatched Kind = "dispatched" // ready -> running
	KindExecuted   Kind = "executed"   // one instruction fetched and executed
	KindAwaiting   Kind = "awaiting"   // fetch past the end of the program
	KindBlocked    Kind = "blocked"    // running -> blocked on input
	KindUnblocked  Kind = "unblocked"  // input available, blocked -> ready
	KindPreempted  Kind = "preempted"  // time slice expired, running -> ready
	KindTerminated Kind = "terminated" // run time exhausted
	KindIdle       Kind = "idle"       // no ready process for one tick
)

// PerTick reports whether the kind is emitted once per simulated tick
// rather than once per scheduling decision.
func (k Kind) PerTick() bool {
	switch k {
	case KindExecuted, KindAwaiting, KindIdle:
		return true
	default:
		return false
	}
}

// Record captures a single narration event.
type Record struct {
	Clock  int64
	PID    int64 // 0 for CPU-wide events (idle)
	Kind   Kind
	Detail string // instruction text, read variable, or empty
}

// String renders the record as one line of a trace file.
func (r Record) String() string {
	line := fmt.Sprintf("[tick %04d] %-10s", r.Clock, r.Kind)
	if r.PID != 0 {
		line += fmt.Sprintf(" pid=%d", r.PID)
	}
	if r.Detail != "" {
		line += " " + r.Detail
	}
	return line
}
