package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrPrerequisiteFailed marks a prerequisite helper that did not meet
	// its success-code contract. The owning task is skipped, not failed.
	ErrPrerequisiteFailed = errors.New("prerequisite failed")

	// ErrCheckFailed marks captured output that did not match the task's
	// check pattern. Treated identically to an exit-code mismatch.
	ErrCheckFailed = errors.New("output check failed")

	// ErrInterrupted marks a run stopped by an external interrupt.
	ErrInterrupted = errors.New("run interrupted")
)

// TaskError reports a task that reached a terminal failure, carrying the
// task name, the stage it reached and any captured output for diagnostics.
type TaskError struct {
	Task   string
	Stage  TaskState
	Output string
	Err    error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q (%s): %v", e.Task, e.Stage, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

func taskErr(task string, stage TaskState, output string, err error) error {
	return &TaskError{Task: task, Stage: stage, Output: output, Err: err}
}
