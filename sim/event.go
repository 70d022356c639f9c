package sim

import "github.com/cpusim/cpusim/sim/trace"

// Event is a narration event emitted by the Scheduler to its Reporter.
// Events are observations only; reporters must not mutate scheduler state.
type Event struct {
	Kind        trace.Kind
	Clock       int64  // tick at which the event happened
	PID         int64  // 0 for CPU-wide events (idle)
	Instruction string // executed instruction (KindExecuted, KindBlocked)
	Variable    string // variable an input read waits on (KindBlocked)
}

// Timestamp returns the tick of the event.
func (e Event) Timestamp() int64 {
	return e.Clock
}

// Detail returns the free-text part of the event for traces and logs.
func (e Event) Detail() string {
	switch e.Kind {
	case trace.KindExecuted:
		return e.Instruction
	case trace.KindBlocked:
		if e.Variable != "" {
			return "waiting for input into " + e.Variable
		}
		return "waiting for input"
	default:
		return ""
	}
}

// Record converts the event to a trace record.
func (e Event) Record() trace.Record {
	return trace.Record{Clock: e.Clock, PID: e.PID, Kind: e.Kind, Detail: e.Detail()}
}
