package engine

// TaskStatus is the per-task outcome recorded in the run summary.
type TaskStatus struct {
	Name   string
	State  TaskState
	Reason string
}

// RunResult is the summary of one run of a document.
//
// It records the final state of every task (tasks after an aborting failure
// stay PENDING), the order in which tasks started executing, and the
// run-level outcome flags the CLI maps to exit codes.
type RunResult struct {
	FinalState     map[string]TaskState
	ExecutionOrder []string
	Statuses       []TaskStatus

	// Failed is set when any task reached FAILED; the remaining sequence
	// was aborted.
	Failed bool

	// Interrupted is set when the run stopped on an external interrupt.
	Interrupted bool
}
