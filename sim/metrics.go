// Tracks per-process timing and CPU-wide statistics of a scheduler run:
// turnaround, waiting and response times, dispatch segments for the Gantt chart.

package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// GanttSlice is one contiguous stretch of CPU time given to a process.
type GanttSlice struct {
	PID   int64 `json:"pid"`
	Start int64 `json:"start"`
	Stop  int64 `json:"stop"`
}

// ProcessStats holds the timing results of one process.
type ProcessStats struct {
	PID           int64 `json:"pid"`
	Priority      int   `json:"priority"`
	ArrivalTime   int64 `json:"arrival_time"`
	RunTime       int64 `json:"run_time"`
	FirstDispatch int64 `json:"first_dispatch"` // -1 if never dispatched
	Completion    int64 `json:"completion"`     // -1 if not terminated
	Turnaround    int64 `json:"turnaround"`     // completion - arrival
	Waiting       int64 `json:"waiting"`        // turnaround - run time
	Response      int64 `json:"response"`       // first dispatch - arrival
	Slices        int   `json:"slices"`
}

// Summary aggregates ProcessStats over the completed processes.
type Summary struct {
	Completed      int     `json:"completed"`
	MeanTurnaround float64 `json:"mean_turnaround"`
	P90Turnaround  float64 `json:"p90_turnaround"`
	MeanWaiting    float64 `json:"mean_waiting"`
	MeanResponse   float64 `json:"mean_response"`
	Throughput     float64 `json:"throughput"`      // completed processes per tick
	CPUUtilization float64 `json:"cpu_utilization"` // busy ticks / total ticks
}

// Metrics aggregates statistics about the simulation for final reporting.
type Metrics struct {
	Policy          string         `json:"policy"`
	SimEndedTime    int64          `json:"sim_ended_time"`
	BusyTicks       int64          `json:"busy_ticks"`
	IdleTicks       int64          `json:"idle_ticks"`
	Dispatches      int            `json:"dispatches"`
	ContextSwitches int            `json:"context_switches"` // dispatches of a different pid than the previous one
	Gantt           []GanttSlice   `json:"gantt"`
	Processes       []ProcessStats `json:"processes"`

	lastPID int64
}

// NewMetrics creates an empty Metrics for the named policy.
func NewMetrics(policy string) *Metrics {
	return &Metrics{
		Policy:    policy,
		Gantt:     make([]GanttSlice, 0),
		Processes: make([]ProcessStats, 0),
	}
}

// recordSlice registers a dispatch that ran pid from start to stop.
// Adjacent slices of the same pid are merged.
func (m *Metrics) recordSlice(pid, start, stop int64) {
	m.Dispatches++
	if m.Dispatches > 1 && pid != m.lastPID {
		m.ContextSwitches++
	}
	m.lastPID = pid
	if stop <= start {
		return
	}
	if n := len(m.Gantt); n > 0 && m.Gantt[n-1].PID == pid && m.Gantt[n-1].Stop == start {
		m.Gantt[n-1].Stop = stop
		return
	}
	m.Gantt = append(m.Gantt, GanttSlice{PID: pid, Start: start, Stop: stop})
}

// Finalize computes per-process statistics at the end of a run.
func (m *Metrics) Finalize(procs []*Process, end int64) {
	m.SimEndedTime = end
	m.Processes = m.Processes[:0]
	for _, p := range procs {
		ps := ProcessStats{
			PID:           p.PID,
			Priority:      p.Priority,
			ArrivalTime:   p.ArrivalTime,
			RunTime:       p.TotalRunTime,
			FirstDispatch: p.FirstDispatch,
			Completion:    p.CompletionTime,
			Slices:        p.UsedTimeSlices,
		}
		if p.CompletionTime >= 0 {
			ps.Turnaround = p.CompletionTime - p.ArrivalTime
			ps.Waiting = ps.Turnaround - p.TotalRunTime
			ps.Response = ps.Turnaround
		}
		if p.FirstDispatch >= 0 {
			ps.Response = p.FirstDispatch - p.ArrivalTime
		}
		m.Processes = append(m.Processes, ps)
	}
}

// Summarize aggregates the completed processes' statistics.
func (m *Metrics) Summarize() Summary {
	var turnaround, waiting, response []float64
	for _, ps := range m.Processes {
		if ps.Completion < 0 {
			continue
		}
		turnaround = append(turnaround, float64(ps.Turnaround))
		waiting = append(waiting, float64(ps.Waiting))
		response = append(response, float64(ps.Response))
	}
	s := Summary{Completed: len(turnaround)}
	if s.Completed == 0 {
		return s
	}
	s.MeanTurnaround = stat.Mean(turnaround, nil)
	s.MeanWaiting = stat.Mean(waiting, nil)
	s.MeanResponse = stat.Mean(response, nil)
	sort.Float64s(turnaround)
	s.P90Turnaround = stat.Quantile(0.9, stat.Empirical, turnaround, nil)
	if m.SimEndedTime > 0 {
		s.Throughput = float64(s.Completed) / float64(m.SimEndedTime)
		s.CPUUtilization = float64(m.BusyTicks) / float64(m.SimEndedTime)
	}
	return s
}

// Print displays the Gantt chart and the schedule table.
func (m *Metrics) Print(w io.Writer) {
	title := fmt.Sprintf("Scheduling results (%s)", m.Policy)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
	m.printGantt(w)

	summary := m.Summarize()
	fmt.Fprintln(w, "Schedule table")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PID", "Priority", "Arrival", "Run", "First", "Exit", "Turnaround", "Waiting", "Response", "Slices"})
	for _, ps := range m.Processes {
		table.Append([]string{
			fmt.Sprint(ps.PID),
			fmt.Sprint(ps.Priority),
			fmt.Sprint(ps.ArrivalTime),
			fmt.Sprint(ps.RunTime),
			fmt.Sprint(ps.FirstDispatch),
			fmt.Sprint(ps.Completion),
			fmt.Sprint(ps.Turnaround),
			fmt.Sprint(ps.Waiting),
			fmt.Sprint(ps.Response),
			fmt.Sprint(ps.Slices),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "",
		fmt.Sprintf("Average %.2f", summary.MeanTurnaround),
		fmt.Sprintf("Average %.2f", summary.MeanWaiting),
		fmt.Sprintf("Average %.2f", summary.MeanResponse),
		""})
	table.Render()

	fmt.Fprintf(w, "Completed processes  : %d\n", summary.Completed)
	fmt.Fprintf(w, "Simulated ticks      : %d (busy %d, idle %d)\n", m.SimEndedTime, m.BusyTicks, m.IdleTicks)
	fmt.Fprintf(w, "P90 turnaround       : %.2f ticks\n", summary.P90Turnaround)
	fmt.Fprintf(w, "Throughput           : %.4f processes/tick\n", summary.Throughput)
	fmt.Fprintf(w, "CPU utilization      : %.2f%%\n", summary.CPUUtilization*100)
	fmt.Fprintf(w, "Dispatches           : %d (context switches %d)\n", m.Dispatches, m.ContextSwitches)
}

func (m *Metrics) printGantt(w io.Writer) {
	fmt.Fprintln(w, "Gantt schedule")
	if len(m.Gantt) == 0 {
		fmt.Fprintln(w, "(empty)")
		fmt.Fprintln(w)
		return
	}
	fmt.Fprint(w, "|")
	for _, g := range m.Gantt {
		pid := fmt.Sprint(g.PID)
		padding := strings.Repeat(" ", (8-len(pid))/2)
		fmt.Fprint(w, padding, pid, padding, "|")
	}
	fmt.Fprintln(w)
	for _, g := range m.Gantt {
		fmt.Fprint(w, g.Start, "\t")
	}
	fmt.Fprintln(w, m.Gantt[len(m.Gantt)-1].Stop)
	fmt.Fprintln(w)
}

// SaveResults writes the metrics and their summary as JSON to path.
func (m *Metrics) SaveResults(path string) error {
	out := struct {
		*Metrics
		Summary Summary `json:"summary"`
	}{m, m.Summarize()}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	logrus.Infof("Results written to %s", path)
	return nil
}
