package sim

import (
	"fmt"
	"time"
)

// Config groups the scheduler parameters of one run.
type Config struct {
	Policy    string // "round-robin" (default), "fcfs", "priority-first"
	TimeSlice int64  // ticks per round-robin dispatch (must be > 0 for round robin)

	// Real-time pacing only; zero disables the pause. Never affects simulated time.
	IdlePause        time.Duration // pause after each idle tick
	InstructionPause time.Duration // pause after each executed tick

	BlockOnInput bool  // input-read instructions block the running process
	InputLatency int64 // ticks between blocking on input and the input becoming available
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Policy:           PolicyRoundRobin,
		TimeSlice:        3,
		IdlePause:        500 * time.Millisecond,
		InstructionPause: 200 * time.Millisecond,
		InputLatency:     2,
	}
}

// Validate checks policy names and parameter ranges.
func (c Config) Validate() error {
	if !IsValidPolicy(c.Policy) {
		return fmt.Errorf("%w %q; valid: %v", ErrInvalidPolicy, c.Policy, ValidPolicyNames())
	}
	if (c.Policy == "" || c.Policy == PolicyRoundRobin) && c.TimeSlice <= 0 {
		return fmt.Errorf("time slice must be positive for round robin, got %d", c.TimeSlice)
	}
	if c.TimeSlice < 0 {
		return fmt.Errorf("time slice must be non-negative, got %d", c.TimeSlice)
	}
	if c.IdlePause < 0 || c.InstructionPause < 0 {
		return fmt.Errorf("pauses must be non-negative, got idle=%v instruction=%v", c.IdlePause, c.InstructionPause)
	}
	if c.InputLatency < 0 {
		return fmt.Errorf("input latency must be non-negative, got %d", c.InputLatency)
	}
	return nil
}
