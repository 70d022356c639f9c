package sim

// ContextRegisters names the general-purpose registers captured by a context snapshot.
var ContextRegisters = [4]string{"eax", "ebx", "ecx", "edx"}

// RegisterFile is the simulated machine's register bank.
type RegisterFile map[string]int

// Context is a named-register snapshot attached to a process.
// Save/restore are standalone operations; the dispatch loop never calls them.
type Context struct {
	Registers map[string]int
}

// NewContext returns a context with every register in ContextRegisters set to zero.
func NewContext() Context {
	regs := make(map[string]int, len(ContextRegisters))
	for _, name := range ContextRegisters {
		regs[name] = 0
	}
	return Context{Registers: regs}
}

// clone returns a deep copy so stack frames do not alias the live snapshot.
func (c Context) clone() Context {
	regs := make(map[string]int, len(c.Registers))
	for k, v := range c.Registers {
		regs[k] = v
	}
	return Context{Registers: regs}
}

// SaveContext captures the machine's values of ContextRegisters into the process.
// Registers missing from m are saved as zero.
func (p *Process) SaveContext(m RegisterFile) {
	if p.Context.Registers == nil {
		p.Context = NewContext()
	}
	for _, name := range ContextRegisters {
		p.Context.Registers[name] = m[name]
	}
}

// RestoreContext writes the process's saved ContextRegisters back into m.
// Other entries of m are left untouched.
func (p *Process) RestoreContext(m RegisterFile) {
	for _, name := range ContextRegisters {
		m[name] = p.Context.Registers[name]
	}
}

// Frame is one call-stack entry: a register snapshot and the program counter to resume at.
type Frame struct {
	Context        Context
	ProgramCounter int
}

// CallStack is a per-process LIFO of frames.
type CallStack struct {
	frames []Frame
}

// Push stores a copy of f on top of the stack.
func (s *CallStack) Push(f Frame) {
	f.Context = f.Context.clone()
	s.frames = append(s.frames, f)
}

// Pop removes and returns the top frame. ok is false (and the frame zero) on an empty stack.
func (s *CallStack) Pop() (f Frame, ok bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	f = s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, true
}

// Len returns the stack depth.
func (s *CallStack) Len() int {
	return len(s.frames)
}

// Empty reports whether the stack has no frames.
func (s *CallStack) Empty() bool {
	return len(s.frames) == 0
}

// PushCall saves the current context and program counter as a new frame.
func (p *Process) PushCall() {
	p.Stack.Push(Frame{Context: p.Context, ProgramCounter: p.ProgramCounter})
}

// PopCall restores the context and program counter from the top frame.
// It returns false when the stack is empty and leaves the process unchanged.
func (p *Process) PopCall() bool {
	f, ok := p.Stack.Pop()
	if !ok {
		return false
	}
	p.Context = f.Context
	p.ProgramCounter = f.ProgramCounter
	return true
}
