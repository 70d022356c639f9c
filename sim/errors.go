package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPolicy is returned when a scheduling policy name is not recognized.
	ErrInvalidPolicy = errors.New("invalid scheduling policy")

	// ErrProgramStoreOverflow is returned when a program does not fit in the store.
	ErrProgramStoreOverflow = errors.New("program store overflow")

	// ErrInvariantViolation marks a scheduler state that should be unreachable:
	// run time overshoot, a process in two queues, an illegal state transition.
	ErrInvariantViolation = errors.New("state invariant violation")

	// ErrInvalidTransition is returned for a state change the process state machine forbids.
	// It matches ErrInvariantViolation under errors.Is.
	ErrInvalidTransition = fmt.Errorf("%w: illegal state transition", ErrInvariantViolation)

	// ErrDuplicatePID is returned when a process id is registered twice.
	ErrDuplicatePID = errors.New("duplicate process id")
)
