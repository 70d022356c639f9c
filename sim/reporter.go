package sim

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cpusim/cpusim/sim/trace"
)

// Reporter observes a scheduler run. Notify receives every narration event;
// ReportQueues receives a consistent queue snapshot after each termination and at the end of the run.
// Both are called from the dispatch goroutine, outside the queue lock.
type Reporter interface {
	Notify(ev Event)
	ReportQueues(snap QueueSnapshot)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Notify(Event)               {}
func (NopReporter) ReportQueues(QueueSnapshot) {}

// LogReporter narrates events through logrus and prints queue status blocks to Out.
type LogReporter struct {
	Out io.Writer
}

// NewLogReporter creates a LogReporter writing queue status to out.
func NewLogReporter(out io.Writer) *LogReporter {
	return &LogReporter{Out: out}
}

func (r *LogReporter) Notify(ev Event) {
	switch ev.Kind {
	case trace.KindAdmitted:
		logrus.Infof("[tick %07d] Process(%d) is in READY state", ev.Clock, ev.PID)
	case trace.KindPending:
		logrus.Infof("[tick %07d] Process(%d) is in BLOCKED state (not arrived)", ev.Clock, ev.PID)
	case trace.KindArrived:
		logrus.Infof("[tick %07d] Process(%d) has arrived and is in READY state", ev.Clock, ev.PID)
	case trace.KindDispatched:
		logrus.Infof("[tick %07d] Process %d is RUNNING", ev.Clock, ev.PID)
	case trace.KindExecuted:
		logrus.Infof("[tick %07d] Process %d is executing instruction: %s", ev.Clock, ev.PID, ev.Instruction)
	case trace.KindAwaiting:
		logrus.Infof("[tick %07d] Process %d is waiting for further instructions", ev.Clock, ev.PID)
	case trace.KindBlocked:
		logrus.Infof("[tick %07d] Process %d is BLOCKED, %s", ev.Clock, ev.PID, ev.Detail())
	case trace.KindUnblocked:
		logrus.Infof("[tick %07d] Process %d received input and is in READY state", ev.Clock, ev.PID)
	case trace.KindPreempted:
		logrus.Infof("[tick %07d] Process %d time slice expired, requeuing", ev.Clock, ev.PID)
	case trace.KindTerminated:
		logrus.Infof("[tick %07d] Process %d has TERMINATED", ev.Clock, ev.PID)
	case trace.KindIdle:
		logrus.Debugf("[tick %07d] CPU is idle", ev.Clock)
	default:
		logrus.Warnf("[tick %07d] unknown event %q for process %d", ev.Clock, ev.Kind, ev.PID)
	}
}

func (r *LogReporter) ReportQueues(snap QueueSnapshot) {
	if r.Out == nil {
		return
	}
	fmt.Fprintln(r.Out)
	fmt.Fprint(r.Out, snap.String())
}

// TraceReporter records events into a SimulationTrace.
type TraceReporter struct {
	mu    sync.Mutex
	Trace *trace.SimulationTrace
}

// NewTraceReporter creates a TraceReporter around a fresh trace at the given level.
func NewTraceReporter(level trace.TraceLevel) *TraceReporter {
	return &TraceReporter{Trace: trace.NewSimulationTrace(trace.TraceConfig{Level: level})}
}

func (r *TraceReporter) Notify(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Trace.Record(ev.Record())
}

func (r *TraceReporter) ReportQueues(QueueSnapshot) {}

// MultiReporter fans every call out to each reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) Notify(ev Event) {
	for _, r := range m {
		r.Notify(ev)
	}
}

func (m MultiReporter) ReportQueues(snap QueueSnapshot) {
	for _, r := range m {
		r.ReportQueues(snap)
	}
}
