package workload

import (
	"fmt"

	"github.com/cpusim/cpusim/sim"
)

// Build creates the process table and the program store described by spec,
// loading each process's program into its slot.
// Fails with sim.ErrProgramStoreOverflow when a program does not fit.
func Build(spec *Spec) (*sim.ProcessTable, *sim.ProgramStore, error) {
	if err := spec.Validate(); err != nil {
		return nil, nil, err
	}
	capacity, slotSize := spec.StoreDimensions()
	store, err := sim.NewProgramStore(capacity, slotSize)
	if err != nil {
		return nil, nil, err
	}

	table := sim.NewProcessTable()
	// explicit pids first, so auto-allocated ones cannot collide with them
	for _, ps := range spec.Processes {
		if ps.PID > 0 {
			table.Reserve(ps.PID)
		}
	}
	procs := make([]*sim.Process, len(spec.Processes))
	for i, ps := range spec.Processes {
		p, err := table.Create(ps.PID, ps.Priority, ps.Arrival, ps.TotalRunTime())
		if err != nil {
			return nil, nil, fmt.Errorf("process[%d]: %w", i, err)
		}
		if err := store.Load(p, ps.Program); err != nil {
			return nil, nil, fmt.Errorf("loading program of process %d: %w", p.PID, err)
		}
		procs[i] = p
	}
	for i, ps := range spec.Processes {
		if ps.Parent == nil {
			continue
		}
		if err := table.SetParent(procs[i], *ps.Parent); err != nil {
			return nil, nil, err
		}
	}
	return table, store, nil
}
