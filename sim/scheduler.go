// sim/scheduler.go
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cpusim/cpusim/sim/trace"
)

// Scheduler is the simulated CPU. It owns the clock and the queue set, admits
// processes as they arrive, and runs the dispatch loop under a DispatchPolicy.
//
// Run is single-threaded: the dispatch goroutine is the only mutator of process
// state and of the clock. Other goroutines may read through Queues().
type Scheduler struct {
	config   Config
	policy   DispatchPolicy
	store    *ProgramStore
	queues   *QueueSet
	procs    []*Process // every admitted process, in admission order
	reporter Reporter

	Metrics *Metrics
}

// NewScheduler validates cfg and creates a Scheduler fetching instructions from store.
// A nil reporter discards narration.
func NewScheduler(cfg Config, store *ProgramStore, reporter Reporter) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := NewPolicy(cfg.Policy, cfg.TimeSlice)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("scheduler needs a program store")
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Scheduler{
		config:   cfg,
		policy:   policy,
		store:    store,
		queues:   NewQueueSet(),
		reporter: reporter,
		Metrics:  NewMetrics(policy.Name()),
	}, nil
}

// Queues returns the queue set, for snapshots and clock reads.
func (s *Scheduler) Queues() *QueueSet {
	return s.queues
}

// Policy returns the active dispatch policy.
func (s *Scheduler) Policy() DispatchPolicy {
	return s.policy
}

// Processes returns every admitted process in admission order.
func (s *Scheduler) Processes() []*Process {
	return s.procs
}

// AddProcess admits p at the current tick: READY on the ready queue when it has
// already arrived, otherwise BLOCKED (pending) on the waiting queue.
func (s *Scheduler) AddProcess(p *Process) error {
	s.queues.mu.Lock()
	now := s.queues.clock
	ev := Event{Clock: now, PID: p.PID}
	var err error
	if p.ArrivalTime <= now {
		if err = p.Transition(StateReady, BlockNone); err == nil {
			s.queues.ready.Enqueue(p)
			ev.Kind = trace.KindAdmitted
		}
	} else {
		if err = p.Transition(StateBlocked, BlockPending); err == nil {
			s.queues.waiting.Enqueue(p)
			ev.Kind = trace.KindPending
		}
	}
	if err == nil {
		s.procs = append(s.procs, p)
	}
	s.queues.mu.Unlock()

	if err != nil {
		return fmt.Errorf("admitting process %d: %w", p.PID, err)
	}
	s.reporter.Notify(ev)
	return nil
}

// AddProcesses admits every process of the table in creation order.
func (s *Scheduler) AddProcesses(table *ProcessTable) error {
	for _, p := range table.Processes() {
		if err := s.AddProcess(p); err != nil {
			return err
		}
	}
	return nil
}

// Run drives the dispatch loop until every process has terminated or ctx is cancelled.
// It returns ctx's error on cancellation and an ErrInvariantViolation error if the
// queue or process invariants ever break.
func (s *Scheduler) Run(ctx context.Context) error {
	logrus.Infof("Starting %s scheduling of %d processes", s.policy.Name(), len(s.procs))
	defer s.finish()

	for !s.allTerminated() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("simulation interrupted at tick %d: %w", s.queues.Now(), err)
		}
		if err := s.admitArrivals(); err != nil {
			return err
		}
		if s.readyEmpty() {
			s.idleTick()
			s.pause(ctx, s.config.IdlePause)
			continue
		}
		if err := s.dispatch(ctx); err != nil {
			return err
		}
		if err := s.CheckInvariants(); err != nil {
			return err
		}
	}
	logrus.Infof("[tick %07d] All processes have terminated", s.queues.Now())
	return nil
}

// finish computes the final metrics and reports the final queue status.
func (s *Scheduler) finish() {
	s.queues.mu.Lock()
	s.Metrics.Finalize(s.procs, s.queues.clock)
	snap := s.queues.snapshotLocked()
	s.queues.mu.Unlock()
	s.reporter.ReportQueues(snap)
}

func (s *Scheduler) allTerminated() bool {
	s.queues.mu.Lock()
	defer s.queues.mu.Unlock()
	return s.queues.terminated.Len() == len(s.procs)
}

func (s *Scheduler) readyEmpty() bool {
	s.queues.mu.Lock()
	defer s.queues.mu.Unlock()
	return s.queues.ready.Len() == 0
}

// idleTick advances the clock by one tick with no process running.
func (s *Scheduler) idleTick() {
	s.queues.mu.Lock()
	now := s.queues.clock
	s.queues.clock++
	s.Metrics.IdleTicks++
	s.queues.mu.Unlock()

	s.reporter.Notify(Event{Kind: trace.KindIdle, Clock: now})
}

// admitArrivals moves every blocked process whose wait is over to the tail of the
// ready queue, scanning in admission order. Pending processes become ready once
// their arrival time is reached; processes blocked on input once their input is available.
func (s *Scheduler) admitArrivals() error {
	s.queues.mu.Lock()
	now := s.queues.clock
	var events []Event
	var err error
	for _, p := range s.procs {
		if p.State != StateBlocked {
			continue
		}
		var kind trace.Kind
		switch p.Block {
		case BlockPending:
			if p.ArrivalTime <= now && p.UsedRunTime == 0 && p.ProgramCounter == 0 {
				kind = trace.KindArrived
			}
		case BlockOnInput:
			if p.InputReadyAt <= now {
				kind = trace.KindUnblocked
			}
		}
		if kind == "" {
			continue
		}
		if !s.queues.waiting.Remove(p) {
			err = fmt.Errorf("%w: blocked process %d is not on the waiting queue", ErrInvariantViolation, p.PID)
			break
		}
		if err = p.Transition(StateReady, BlockNone); err != nil {
			break
		}
		s.queues.ready.Enqueue(p)
		events = append(events, Event{Kind: kind, Clock: now, PID: p.PID})
	}
	s.queues.mu.Unlock()

	for _, ev := range events {
		s.reporter.Notify(ev)
	}
	return err
}

// dispatch runs the policy's choice from the ready queue for up to its budget,
// then places it on the terminated, waiting or ready queue.
func (s *Scheduler) dispatch(ctx context.Context) error {
	s.queues.mu.Lock()
	s.queues.ready.Reorder(s.policy.OrderQueue)
	p := s.queues.ready.Dequeue()
	start := s.queues.clock

	// nothing left to run: terminate without dispatching
	if p.Finished() {
		err := s.terminateLocked(p, start)
		snap := s.queues.snapshotLocked()
		s.queues.mu.Unlock()
		if err != nil {
			return err
		}
		s.reporter.Notify(Event{Kind: trace.KindTerminated, Clock: start, PID: p.PID})
		s.reporter.ReportQueues(snap)
		return nil
	}

	if err := p.Transition(StateRunning, BlockNone); err != nil {
		s.queues.mu.Unlock()
		return err
	}
	s.queues.running = p
	if p.FirstDispatch < 0 {
		p.FirstDispatch = start
	}
	budget := s.policy.Budget(p)
	p.UseTimeSlice(int(budget))
	s.queues.mu.Unlock()

	s.reporter.Notify(Event{Kind: trace.KindDispatched, Clock: start, PID: p.PID})

	blocked := false
	for i := int64(0); i < budget; i++ {
		if ctx.Err() != nil {
			break
		}
		var err error
		blocked, err = s.execute(p)
		if err != nil {
			return err
		}
		if !blocked {
			if err := p.AccumulateRunTime(1); err != nil {
				return err
			}
			p.RemainingTimeSlice--
		}
		if err := s.admitArrivals(); err != nil {
			return err
		}
		if blocked || p.Finished() {
			break
		}
		s.pause(ctx, s.config.InstructionPause)
	}

	s.queues.mu.Lock()
	end := s.queues.clock
	s.Metrics.recordSlice(p.PID, start, end)
	var ev Event
	var snap *QueueSnapshot
	var err error
	switch {
	case blocked:
		// execute already moved p to the waiting queue
	case p.Finished():
		s.queues.running = nil
		err = s.terminateLocked(p, end)
		ev = Event{Kind: trace.KindTerminated, Clock: end, PID: p.PID}
		qs := s.queues.snapshotLocked()
		snap = &qs
	default:
		s.queues.running = nil
		if err = p.Transition(StateReady, BlockNone); err == nil {
			s.queues.ready.Enqueue(p)
		}
		ev = Event{Kind: trace.KindPreempted, Clock: end, PID: p.PID}
	}
	s.queues.mu.Unlock()

	if err != nil {
		return err
	}
	if ev.Kind != "" {
		s.reporter.Notify(ev)
	}
	if snap != nil {
		s.reporter.ReportQueues(*snap)
	}
	return nil
}

func (s *Scheduler) terminateLocked(p *Process, now int64) error {
	if err := p.Transition(StateTerminated, BlockNone); err != nil {
		return err
	}
	p.CompletionTime = now
	s.queues.terminated.Enqueue(p)
	return nil
}

// execute fetches and executes one instruction of the running process and advances
// the clock by one tick. A fetch past the end of the program still costs the tick.
// It reports whether the instruction blocked the process on input, in which case
// the process has already been moved to the waiting queue.
func (s *Scheduler) execute(p *Process) (blocked bool, err error) {
	s.queues.mu.Lock()
	now := s.queues.clock
	var events []Event
	instr, ok := s.store.Fetch(p)
	if ok {
		p.ProgramCounter++
		events = append(events, Event{Kind: trace.KindExecuted, Clock: now, PID: p.PID, Instruction: instr})
		if s.config.BlockOnInput && IsInputRead(instr) {
			if err = p.Transition(StateBlocked, BlockOnInput); err == nil {
				blocked = true
				p.InputReadyAt = now + 1 + s.config.InputLatency
				s.queues.running = nil
				s.queues.waiting.Enqueue(p)
				events = append(events, Event{Kind: trace.KindBlocked, Clock: now, PID: p.PID,
					Instruction: instr, Variable: ReadVariable(instr)})
			}
		}
	} else {
		events = append(events, Event{Kind: trace.KindAwaiting, Clock: now, PID: p.PID})
	}
	s.queues.clock++
	s.Metrics.BusyTicks++
	s.queues.mu.Unlock()

	for _, ev := range events {
		s.reporter.Notify(ev)
	}
	return blocked, err
}

// pause sleeps for d of real time, returning early if ctx is cancelled.
// Pacing only; simulated time is unaffected.
func (s *Scheduler) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// CheckInvariants verifies that every process is in exactly one place (a queue or
// the CPU), that its state matches that place, and that its counters are in range.
func (s *Scheduler) CheckInvariants() error {
	s.queues.mu.Lock()
	defer s.queues.mu.Unlock()

	places := make(map[*Process][]ProcessState, len(s.procs))
	for _, p := range s.queues.ready.Items() {
		places[p] = append(places[p], StateReady)
	}
	for _, p := range s.queues.waiting.Items() {
		places[p] = append(places[p], StateBlocked)
	}
	for _, p := range s.queues.terminated.Items() {
		places[p] = append(places[p], StateTerminated)
	}
	if r := s.queues.running; r != nil {
		places[r] = append(places[r], StateRunning)
	}
	if len(places) != len(s.procs) {
		return fmt.Errorf("%w: %d processes queued, %d admitted", ErrInvariantViolation, len(places), len(s.procs))
	}

	for _, p := range s.procs {
		at := places[p]
		if len(at) != 1 {
			return fmt.Errorf("%w: process %d is in %d places %v", ErrInvariantViolation, p.PID, len(at), at)
		}
		if p.State != at[0] {
			return fmt.Errorf("%w: process %d is %s but queued as %s", ErrInvariantViolation, p.PID, p.State, at[0])
		}
		if p.UsedRunTime > p.TotalRunTime {
			return fmt.Errorf("%w: process %d used %d of %d ticks", ErrInvariantViolation, p.PID, p.UsedRunTime, p.TotalRunTime)
		}
		if p.ProgramCounter > p.CodeLength {
			return fmt.Errorf("%w: process %d program counter %d beyond code length %d", ErrInvariantViolation, p.PID, p.ProgramCounter, p.CodeLength)
		}
		if p.State == StateTerminated && p.UsedRunTime != p.TotalRunTime {
			return fmt.Errorf("%w: process %d terminated after %d of %d ticks", ErrInvariantViolation, p.PID, p.UsedRunTime, p.TotalRunTime)
		}
	}
	return nil
}
