package sim

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpusim/cpusim/sim/internal/testutil"
)

func TestMetrics_RecordSlice_MergesAdjacentSamePID(t *testing.T) {
	m := NewMetrics(PolicyRoundRobin)

	m.recordSlice(1, 0, 3)
	m.recordSlice(1, 3, 5)
	m.recordSlice(2, 5, 6)
	m.recordSlice(2, 6, 6) // zero-length dispatch

	assert.Equal(t, []GanttSlice{{PID: 1, Start: 0, Stop: 5}, {PID: 2, Start: 5, Stop: 6}}, m.Gantt)
	assert.Equal(t, 4, m.Dispatches)
	assert.Equal(t, 1, m.ContextSwitches)
}

func TestMetrics_Finalize_ComputesTimes(t *testing.T) {
	// GIVEN a process that arrived at 2, first ran at 4 and finished at 10 after 5 ticks
	done := NewProcess(1, 30, 2, 5)
	done.FirstDispatch = 4
	done.CompletionTime = 10
	done.UsedTimeSlices = 2
	// AND one that never ran
	never := NewProcess(2, 10, 0, 3)

	// WHEN metrics are finalized at tick 12
	m := NewMetrics(PolicyRoundRobin)
	m.Finalize([]*Process{done, never}, 12)

	// THEN turnaround, waiting and response follow from the timestamps
	require.Len(t, m.Processes, 2)
	assert.Equal(t, ProcessStats{PID: 1, Priority: 30, ArrivalTime: 2, RunTime: 5, FirstDispatch: 4,
		Completion: 10, Turnaround: 8, Waiting: 3, Response: 2, Slices: 2}, m.Processes[0])
	assert.Equal(t, int64(-1), m.Processes[1].Completion)
	assert.Equal(t, int64(12), m.SimEndedTime)
}

func TestMetrics_Finalize_ResponseOfNeverDispatchedEqualsTurnaround(t *testing.T) {
	p := NewProcess(1, 0, 3, 0)
	p.CompletionTime = 5

	m := NewMetrics(PolicyFCFS)
	m.Finalize([]*Process{p}, 5)

	assert.Equal(t, int64(2), m.Processes[0].Response)
	assert.Equal(t, int64(2), m.Processes[0].Waiting)
}

func TestMetrics_Summarize_MeansAndQuantile(t *testing.T) {
	m := NewMetrics(PolicyRoundRobin)
	m.SimEndedTime = 15
	m.BusyTicks = 12
	m.Processes = []ProcessStats{
		{PID: 1, Completion: 11, Turnaround: 11, Waiting: 6, Response: 0},
		{PID: 2, Completion: 6, Turnaround: 6, Waiting: 3, Response: 3},
		{PID: 3, Completion: 15, Turnaround: 15, Waiting: 8, Response: 6},
		{PID: 4, Completion: -1},
	}

	s := m.Summarize()

	assert.Equal(t, 3, s.Completed)
	testutil.AssertFloat64Equal(t, "mean turnaround", 32.0/3, s.MeanTurnaround, 1e-9)
	testutil.AssertFloat64Equal(t, "mean waiting", 17.0/3, s.MeanWaiting, 1e-9)
	testutil.AssertFloat64Equal(t, "mean response", 3, s.MeanResponse, 1e-9)
	testutil.AssertFloat64Equal(t, "p90 turnaround", 15, s.P90Turnaround, 1e-9)
	testutil.AssertFloat64Equal(t, "throughput", 0.2, s.Throughput, 1e-9)
	testutil.AssertFloat64Equal(t, "cpu utilization", 0.8, s.CPUUtilization, 1e-9)
}

func TestMetrics_Summarize_NothingCompleted(t *testing.T) {
	s := NewMetrics(PolicyRoundRobin).Summarize()
	assert.Equal(t, Summary{}, s)
}

func TestMetrics_Print_ShowsGanttAndTable(t *testing.T) {
	m := NewMetrics(PolicyRoundRobin)
	m.recordSlice(1, 0, 3)
	m.recordSlice(2, 3, 5)
	p1 := NewProcess(1, 0, 0, 3)
	p1.FirstDispatch, p1.CompletionTime = 0, 3
	p2 := NewProcess(2, 0, 0, 2)
	p2.FirstDispatch, p2.CompletionTime = 3, 5
	m.Finalize([]*Process{p1, p2}, 5)

	var buf bytes.Buffer
	m.Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "Scheduling results (round-robin)")
	assert.Contains(t, out, "Gantt schedule")
	assert.Contains(t, out, "|   1   |   2   |")
	assert.Contains(t, out, "0\t3\t5")
	assert.Contains(t, out, "TURNAROUND")
	assert.Contains(t, out, "Completed processes  : 2")
}

func TestMetrics_Print_EmptyGantt(t *testing.T) {
	var buf bytes.Buffer
	NewMetrics(PolicyFCFS).Print(&buf)
	assert.True(t, strings.Contains(buf.String(), "(empty)"))
}

func TestMetrics_SaveResults_WritesJSON(t *testing.T) {
	m := NewMetrics(PolicyPriorityFirst)
	m.recordSlice(3, 0, 2)
	p := NewProcess(3, 40, 0, 2)
	p.FirstDispatch, p.CompletionTime = 0, 2
	m.Finalize([]*Process{p}, 2)
	path := filepath.Join(t.TempDir(), "results.json")

	require.NoError(t, m.SaveResults(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "priority-first", got["policy"])
	assert.Len(t, got["processes"], 1)
	assert.Len(t, got["gantt"], 1)
	summary, ok := got["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), summary["completed"])
}
