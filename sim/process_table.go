package sim

import (
	"fmt"

	"github.com/markphelps/optional"
)

// ProcessTable owns every Process of a simulation run.
// It assigns creation-order indexes, allocates pids on request and resolves
// parent back-references by pid.
type ProcessTable struct {
	procs    []*Process
	byPID    map[int64]*Process
	reserved map[int64]bool
	nextPID  int64
}

// NewProcessTable creates an empty table. Auto-assigned pids start at 1.
func NewProcessTable() *ProcessTable {
	return &ProcessTable{
		byPID:    make(map[int64]*Process),
		reserved: make(map[int64]bool),
		nextPID:  1,
	}
}

// Create builds a process and adds it to the table.
// A pid <= 0 asks the table to allocate the next free id.
func (t *ProcessTable) Create(pid int64, priority int, arrivalTime, totalRunTime int64) (*Process, error) {
	if pid <= 0 {
		pid = t.allocatePID()
	}
	p := NewProcess(pid, priority, arrivalTime, totalRunTime)
	if err := t.Add(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Add registers an existing process and stamps its creation-order index.
func (t *ProcessTable) Add(p *Process) error {
	if _, ok := t.byPID[p.PID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicatePID, p.PID)
	}
	p.Index = len(t.procs)
	t.procs = append(t.procs, p)
	t.byPID[p.PID] = p
	if p.PID >= t.nextPID {
		t.nextPID = p.PID + 1
	}
	return nil
}

// Reserve keeps pid out of automatic allocation so a later Create with that
// explicit pid cannot collide with an auto-assigned one.
func (t *ProcessTable) Reserve(pid int64) {
	t.reserved[pid] = true
}

func (t *ProcessTable) allocatePID() int64 {
	for {
		pid := t.nextPID
		t.nextPID++
		if _, taken := t.byPID[pid]; !taken && !t.reserved[pid] {
			return pid
		}
	}
}

// Lookup returns the process with the given pid, or nil.
func (t *ProcessTable) Lookup(pid int64) *Process {
	return t.byPID[pid]
}

// SetParent links child to parent by pid. The parent must already be in the table.
func (t *ProcessTable) SetParent(child *Process, parentPID int64) error {
	if t.byPID[parentPID] == nil {
		return fmt.Errorf("process %d: unknown parent %d", child.PID, parentPID)
	}
	if parentPID == child.PID {
		return fmt.Errorf("process %d cannot be its own parent", child.PID)
	}
	child.Parent = optional.NewInt64(parentPID)
	return nil
}

// ParentOf resolves p's parent back-reference. Returns nil when p has no parent.
func (t *ProcessTable) ParentOf(p *Process) *Process {
	pid, err := p.Parent.Get()
	if err != nil {
		return nil
	}
	return t.byPID[pid]
}

// Processes returns the processes in creation order.
// The returned slice is the table's internal storage and MUST NOT be modified.
func (t *ProcessTable) Processes() []*Process {
	return t.procs
}

// Len returns the number of processes in the table.
func (t *ProcessTable) Len() int {
	return len(t.procs)
}
