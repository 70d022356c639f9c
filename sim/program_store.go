// Implements the ProgramStore, a fixed-capacity buffer holding every process's
// instruction lines in disjoint per-process slots.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultStoreCapacity is the number of instruction lines the store holds.
	DefaultStoreCapacity = 2048
	// DefaultSlotSize is the maximum number of instruction lines per process.
	DefaultSlotSize = 256
)

// ProgramStore is a flat array of instruction lines partitioned into fixed-size slots.
// Process i (creation order) owns lines [i*slotSize, i*slotSize+slotSize).
type ProgramStore struct {
	lines    []string
	slotSize int
}

// NewProgramStore creates a store of the given capacity filled with empty lines.
func NewProgramStore(capacity, slotSize int) (*ProgramStore, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("program store capacity must be positive, got %d", capacity)
	}
	if slotSize <= 0 {
		return nil, fmt.Errorf("program store slot size must be positive, got %d", slotSize)
	}
	return &ProgramStore{
		lines:    make([]string, capacity),
		slotSize: slotSize,
	}, nil
}

// Capacity returns the total number of lines in the store.
func (ps *ProgramStore) Capacity() int {
	return len(ps.lines)
}

// SlotSize returns the per-process slot size.
func (ps *ProgramStore) SlotSize() int {
	return ps.slotSize
}

// Load writes program into p's slot and records the code location and memory usage
// (lines occupied) on p.
// Programs longer than the slot are truncated to the slot boundary.
// Returns ErrProgramStoreOverflow when the used span does not fit in the store.
func (ps *ProgramStore) Load(p *Process, program []string) error {
	offset := p.Index * ps.slotSize
	length := len(program)
	if length > ps.slotSize {
		logrus.Warnf("Process %d program has %d lines, truncating to slot size %d", p.PID, length, ps.slotSize)
		length = ps.slotSize
	}
	if offset+length > len(ps.lines) {
		return fmt.Errorf("%w: process %d needs lines [%d, %d), capacity is %d",
			ErrProgramStoreOverflow, p.PID, offset, offset+length, len(ps.lines))
	}

	// clear whatever a previous load left in the slot
	end := min(offset+ps.slotSize, len(ps.lines))
	for i := offset; i < end; i++ {
		ps.lines[i] = ""
	}
	copy(ps.lines[offset:offset+length], program[:length])
	p.SetCodeLocation(offset, length)
	p.MemoryUsage = length
	return nil
}

// Fetch returns the instruction at p's program counter.
// ok is false when the program counter is past the end of the program.
func (ps *ProgramStore) Fetch(p *Process) (instruction string, ok bool) {
	if p.ProgramCounter < 0 || p.ProgramCounter >= p.CodeLength {
		return "", false
	}
	return ps.lines[p.CodeStart+p.ProgramCounter], true
}

// Line returns the raw line at absolute index i.
func (ps *ProgramStore) Line(i int) string {
	return ps.lines[i]
}
