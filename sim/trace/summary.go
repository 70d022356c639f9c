package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalRecords    int
	KindCounts      map[Kind]int
	Dispatches      int
	Preemptions     int
	IdleTicks       int
	DispatchCounts  map[int64]int // pid → number of dispatches
	DispatchOrder   []int64       // pids in dispatch order
	CompletionOrder []int64       // pids in termination order
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		KindCounts:     make(map[Kind]int),
		DispatchCounts: make(map[int64]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalRecords = len(st.Records)
	for _, r := range st.Records {
		summary.KindCounts[r.Kind]++
		switch r.Kind {
		case KindDispatched:
			summary.DispatchCounts[r.PID]++
			summary.DispatchOrder = append(summary.DispatchOrder, r.PID)
		case KindTerminated:
			summary.CompletionOrder = append(summary.CompletionOrder, r.PID)
		}
	}
	summary.Dispatches = summary.KindCounts[KindDispatched]
	summary.Preemptions = summary.KindCounts[KindPreempted]
	summary.IdleTicks = summary.KindCounts[KindIdle]

	return summary
}
