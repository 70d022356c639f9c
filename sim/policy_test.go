package sim

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pids(ps []*Process) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.PID
	}
	return out
}

func TestRoundRobin_OrderQueue_PreservesFIFO(t *testing.T) {
	ready := []*Process{
		NewProcess(3, 90, 0, 5),
		NewProcess(1, 10, 4, 5),
		NewProcess(2, 50, 2, 5),
	}

	(&RoundRobin{TimeSlice: 3}).OrderQueue(ready)

	if got := pids(ready); !slices.Equal(got, []int64{3, 1, 2}) {
		t.Errorf("RoundRobin: got %v, want [3 1 2]", got)
	}
}

func TestRoundRobin_Budget_CappedByRemaining(t *testing.T) {
	rr := &RoundRobin{TimeSlice: 3}
	p := NewProcess(1, 0, 0, 5)

	assert.Equal(t, int64(3), rr.Budget(p))
	require.NoError(t, p.AccumulateRunTime(4))
	assert.Equal(t, int64(1), rr.Budget(p))
}

func TestFCFS_OrderQueue_SortsByArrivalThenPID(t *testing.T) {
	ready := []*Process{
		NewProcess(3, 0, 4, 1),
		NewProcess(5, 0, 1, 1),
		NewProcess(2, 0, 1, 1),
		NewProcess(1, 0, 0, 1),
	}

	(&FCFS{}).OrderQueue(ready)

	if got := pids(ready); !slices.Equal(got, []int64{1, 2, 5, 3}) {
		t.Errorf("FCFS: got %v, want [1 2 5 3]", got)
	}
}

func TestPriorityFirst_OrderQueue_HigherValueFirst(t *testing.T) {
	// The five sample priorities: 30, 20, 40, 25, 35
	ready := []*Process{
		NewProcess(1, 30, 0, 1),
		NewProcess(2, 20, 2, 1),
		NewProcess(3, 40, 4, 1),
		NewProcess(4, 25, 3, 1),
		NewProcess(5, 35, 1, 1),
	}

	(&PriorityFirst{}).OrderQueue(ready)

	if got := pids(ready); !slices.Equal(got, []int64{3, 5, 1, 4, 2}) {
		t.Errorf("PriorityFirst: got %v, want [3 5 1 4 2]", got)
	}
}

func TestRunToCompletionPolicies_BudgetIsRemaining(t *testing.T) {
	p := NewProcess(1, 0, 0, 9)
	require.NoError(t, p.AccumulateRunTime(2))

	assert.Equal(t, int64(7), (&FCFS{}).Budget(p))
	assert.Equal(t, int64(7), (&PriorityFirst{}).Budget(p))
}

func TestNewPolicy_ValidNames(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", PolicyRoundRobin},
		{PolicyRoundRobin, PolicyRoundRobin},
		{PolicyFCFS, PolicyFCFS},
		{PolicyPriorityFirst, PolicyPriorityFirst},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			p, err := NewPolicy(tc.name, 2)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Name())
		})
	}
}

func TestNewPolicy_UnknownName_ReturnsSentinel(t *testing.T) {
	p, err := NewPolicy("shortest-job", 3)

	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
	assert.Contains(t, err.Error(), "shortest-job")
}

func TestNewPolicy_RoundRobinNeedsPositiveSlice(t *testing.T) {
	_, err := NewPolicy(PolicyRoundRobin, 0)
	assert.Error(t, err)

	_, err = NewPolicy(PolicyFCFS, 0)
	assert.NoError(t, err, "time slice is ignored outside round robin")
}

func TestValidPolicyNames_SortedWithoutEmpty(t *testing.T) {
	assert.Equal(t, []string{PolicyFCFS, PolicyPriorityFirst, PolicyRoundRobin}, ValidPolicyNames())
	assert.True(t, IsValidPolicy(""))
	assert.False(t, IsValidPolicy("lottery"))
}
