package orchestrator

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an action status change is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status is the lifecycle state of one action.
type Status string

const (
	// StatusPending is the initial state.
	StatusPending Status = "pending"
	// StatusRunning means the action is being executed.
	StatusRunning Status = "running"
	// StatusSucceeded is terminal: the component converged.
	StatusSucceeded Status = "succeeded"
	// StatusFailed is terminal: the action failed after its retries.
	StatusFailed Status = "failed"
	// StatusSkipped is terminal: nothing was executed.
	StatusSkipped Status = "skipped"
)

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusSkipped
}

// CanTransition reports whether s may move to next.
// pending → running | skipped; running → succeeded | failed | skipped.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning || next == StatusSkipped
	case StatusRunning:
		return next.IsTerminal()
	case StatusSucceeded, StatusFailed, StatusSkipped:
		return false
	default:
		return false
	}
}

// transition moves the result to next or returns ErrInvalidTransition.
func (r *Result) transition(next Status) error {
	if !r.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s %s -> %s", ErrInvalidTransition, r.Component, r.Status, next)
	}

	r.Status = next

	return nil
}
