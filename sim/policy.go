package sim

import (
	"fmt"
	"slices"
	"sort"
)

// Policy names accepted by NewPolicy.
const (
	PolicyRoundRobin    = "round-robin"
	PolicyFCFS          = "fcfs"
	PolicyPriorityFirst = "priority-first"
)

// validPolicies is the set of recognized policy names. Empty selects round robin.
var validPolicies = map[string]bool{
	"":                  true,
	PolicyRoundRobin:    true,
	PolicyFCFS:          true,
	PolicyPriorityFirst: true,
}

// IsValidPolicy returns true if name is a recognized scheduling policy.
func IsValidPolicy(name string) bool {
	return validPolicies[name]
}

// ValidPolicyNames returns the recognized policy names, sorted.
func ValidPolicyNames() []string {
	names := make([]string, 0, len(validPolicies))
	for name := range validPolicies {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// DispatchPolicy decides which ready process runs next and for how long.
// Before every dispatch the Scheduler calls OrderQueue on the ready queue and
// dispatches its head; Budget then caps the ticks granted to that process.
type DispatchPolicy interface {
	Name() string
	// OrderQueue reorders the ready queue in place. Implementations MUST NOT change its length.
	OrderQueue(ready []*Process)
	// Budget returns the ticks the dispatched process may run before being preempted.
	Budget(p *Process) int64
}

// RoundRobin keeps the ready queue FIFO and preempts after TimeSlice ticks.
type RoundRobin struct {
	TimeSlice int64
}

func (r *RoundRobin) Name() string { return PolicyRoundRobin }

func (r *RoundRobin) OrderQueue(_ []*Process) {
	// No-op: FIFO order preserved from enqueue order
}

func (r *RoundRobin) Budget(p *Process) int64 {
	return min(r.TimeSlice, p.Remaining())
}

// FCFS dispatches by arrival time (ties by pid) and runs each process to completion or blocking.
type FCFS struct{}

func (f *FCFS) Name() string { return PolicyFCFS }

func (f *FCFS) OrderQueue(ready []*Process) {
	slices.SortStableFunc(ready, CompareArrival)
}

func (f *FCFS) Budget(p *Process) int64 {
	return p.Remaining()
}

// PriorityFirst dispatches the highest-priority ready process (ties by arrival time, then pid)
// and runs it to completion or blocking.
type PriorityFirst struct{}

func (pf *PriorityFirst) Name() string { return PolicyPriorityFirst }

func (pf *PriorityFirst) OrderQueue(ready []*Process) {
	slices.SortStableFunc(ready, ComparePriority)
}

func (pf *PriorityFirst) Budget(p *Process) int64 {
	return p.Remaining()
}

// NewPolicy creates a DispatchPolicy by name.
// Empty string defaults to round robin. timeSlice is only used by round robin and must be positive there.
func NewPolicy(name string, timeSlice int64) (DispatchPolicy, error) {
	if !IsValidPolicy(name) {
		return nil, fmt.Errorf("%w %q; valid: %v", ErrInvalidPolicy, name, ValidPolicyNames())
	}
	switch name {
	case "", PolicyRoundRobin:
		if timeSlice <= 0 {
			return nil, fmt.Errorf("round robin time slice must be positive, got %d", timeSlice)
		}
		return &RoundRobin{TimeSlice: timeSlice}, nil
	case PolicyFCFS:
		return &FCFS{}, nil
	case PolicyPriorityFirst:
		return &PriorityFirst{}, nil
	default:
		panic(fmt.Sprintf("unhandled policy %q", name))
	}
}
