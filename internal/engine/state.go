// Package engine drives the sequential execution of a task document.
package engine

import "fmt"

// TaskState is the runtime execution state of one task.
//
// Tasks move through a linear machine:
//
//	PENDING → PREREQ_CHECK → (SKIPPED | INPUT_WAIT) → SUBSTITUTING →
//	EXECUTING → (COMPLETED | FAILED)
//
// The prerequisite and input stages are entered only when the task declares
// them. No task leaves PENDING before the previous task reached a terminal
// state.
type TaskState string

const (
	StatePending      TaskState = "PENDING"
	StatePrereqCheck  TaskState = "PREREQ_CHECK"
	StateInputWait    TaskState = "INPUT_WAIT"
	StateSubstituting TaskState = "SUBSTITUTING"
	StateExecuting    TaskState = "EXECUTING"
	StateCompleted    TaskState = "COMPLETED"
	StateFailed       TaskState = "FAILED"
	StateSkipped      TaskState = "SKIPPED"
)

// IsTerminal reports whether the state is terminal (finished).
func IsTerminal(s TaskState) bool {
	switch s {
	case StateCompleted, StateFailed, StateSkipped:
		return true
	default:
		return false
	}
}

// Transition performs a validated transition for a single task.
//
// The caller supplies the expected prior state (from) so that any skipped
// or out-of-order stage is observable as an error rather than silent state
// corruption. The state map is mutated if and only if the transition is
// valid.
func Transition(state map[string]TaskState, taskName string, from, to TaskState) error {
	cur, ok := state[taskName]
	if !ok {
		return fmt.Errorf("unknown task in state: %q", taskName)
	}
	if cur != from {
		return fmt.Errorf("invalid transition for %q: expected %s, got %s", taskName, from, cur)
	}
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed transition for %q: %s -> %s", taskName, from, to)
	}
	state[taskName] = to
	return nil
}

func isAllowedTransition(from, to TaskState) bool {
	switch from {
	case StatePending:
		return to == StatePrereqCheck || to == StateInputWait || to == StateSubstituting
	case StatePrereqCheck:
		return to == StateSkipped || to == StateInputWait || to == StateSubstituting || to == StateFailed
	case StateInputWait:
		return to == StateSubstituting
	case StateSubstituting:
		// A text-only task completes without executing anything; an
		// undefined variable fails before anything executes.
		return to == StateExecuting || to == StateCompleted || to == StateFailed
	case StateExecuting:
		return to == StateCompleted || to == StateFailed
	default:
		return false
	}
}
