package trace

import (
	"bufio"
	"fmt"
	"io"
)

// TraceLevel controls the verbosity of narration tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDispatch captures scheduling decisions: admission, dispatch, preemption, blocking, termination.
	TraceLevelDispatch TraceLevel = "dispatch"
	// TraceLevelFull also captures every executed instruction and idle tick.
	TraceLevelFull TraceLevel = "full"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:     true,
	TraceLevelDispatch: true,
	TraceLevelFull:     true,
	"":                 true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects narration records during a scheduler run.
type SimulationTrace struct {
	Config  TraceConfig
	Records []Record
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:  config,
		Records: make([]Record, 0),
	}
}

// Accepts reports whether a record of kind k is kept at the configured level.
func (st *SimulationTrace) Accepts(k Kind) bool {
	switch st.Config.Level {
	case TraceLevelFull:
		return true
	case TraceLevelDispatch:
		return !k.PerTick()
	default:
		return false
	}
}

// Record appends a record if the trace level accepts its kind.
func (st *SimulationTrace) Record(record Record) {
	if st.Accepts(record.Kind) {
		st.Records = append(st.Records, record)
	}
}

// Lines returns the records rendered one per line.
func (st *SimulationTrace) Lines() []string {
	lines := make([]string, len(st.Records))
	for i, r := range st.Records {
		lines[i] = r.String()
	}
	return lines
}

// WriteTo writes the rendered records to w, one per line.
func (st *SimulationTrace) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, r := range st.Records {
		m, err := fmt.Fprintln(bw, r.String())
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
