package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpusim/cpusim/sim/trace"
)

// testProc describes one process of a test workload.
type testProc struct {
	pid      int64
	priority int
	arrival  int64
	total    int64
	program  []string
}

// program returns n instruction lines named prefix0..prefix{n-1}.
func program(prefix string, n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return lines
}

// fastConfig returns a config with real-time pacing disabled.
func fastConfig(policy string, timeSlice int64) Config {
	cfg := DefaultConfig()
	cfg.Policy = policy
	cfg.TimeSlice = timeSlice
	cfg.IdlePause = 0
	cfg.InstructionPause = 0
	return cfg
}

// invariantChecker verifies the scheduler invariants after every event.
type invariantChecker struct {
	t      *testing.T
	s      *Scheduler
	checks int
}

func (c *invariantChecker) Notify(ev Event) {
	if c.s == nil {
		return
	}
	c.checks++
	if err := c.s.CheckInvariants(); err != nil {
		c.t.Errorf("after %s of pid %d at tick %d: %v", ev.Kind, ev.PID, ev.Clock, err)
	}
}

func (c *invariantChecker) ReportQueues(QueueSnapshot) {}

// newTestScheduler loads procs into a fresh store, admits them and returns the
// scheduler with a full-level trace. Invariants are checked on every event.
func newTestScheduler(t *testing.T, cfg Config, procs ...testProc) (*Scheduler, *TraceReporter) {
	t.Helper()
	store, err := NewProgramStore(DefaultStoreCapacity, DefaultSlotSize)
	require.NoError(t, err)
	table := NewProcessTable()
	for _, tp := range procs {
		p, err := table.Create(tp.pid, tp.priority, tp.arrival, tp.total)
		require.NoError(t, err)
		require.NoError(t, store.Load(p, tp.program))
	}

	tracer := NewTraceReporter(trace.TraceLevelFull)
	checker := &invariantChecker{t: t}
	s, err := NewScheduler(cfg, store, MultiReporter{tracer, checker})
	require.NoError(t, err)
	checker.s = s
	require.NoError(t, s.AddProcesses(table))
	return s, tracer
}

// recordsOfKind filters a trace down to one kind.
func recordsOfKind(tr *TraceReporter, kind trace.Kind) []trace.Record {
	var out []trace.Record
	for _, r := range tr.Trace.Records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
