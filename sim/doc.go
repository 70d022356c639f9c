// Package sim provides the scheduler engine of cpusim, an educational CPU-scheduling simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process lifecycle (new → ready ⇄ running → terminated, blocked) and state machine
//   - queue_set.go: the clock and the ready/waiting/terminated queues behind one mutex
//   - scheduler.go: admission, the dispatch loop, and instruction execution
//
// # Architecture
//
// The sim package defines the engine and its extension points; supporting
// packages live in sub-packages:
//   - sim/workload/: YAML process tables, program loading, built-in sample programs
//   - sim/trace/: narration trace recording and summaries
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - DispatchPolicy: order the ready queue and cap the ticks granted per dispatch
//     (round-robin, fcfs, priority-first)
//   - Reporter: observe narration events and queue snapshots (logrus, trace, fan-out)
//   - Clock: read-only clock view for the periodic ClockReporter
package sim
