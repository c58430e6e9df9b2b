package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// Semantic exit codes. Each failure class gets a distinct code so callers
// can script against the runner.
const (
	ExitSuccess           = 0
	ExitTaskFailure       = 1
	ExitInvalidInvocation = 2
	ExitDocumentInvalid   = 3
	ExitInternalError     = 4
	ExitInterrupted       = 130
)

// Invocation is the canonicalized description of one CLI run. It is the
// only configuration the engine ever sees; no environment variables are
// consulted.
type Invocation struct {
	TaskfilePath string
	Verbose      bool
	Quiet        bool
	DryRun       bool
	TextOnly     bool
	CheckOnly    bool
}

// InvocationError carries a semantic exit code for an argument problem.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// ParseInvocation parses the argument slice (excluding argv[0]) into a
// canonical Invocation. Exactly one positional argument, the taskfile path,
// is required.
func ParseInvocation(args []string) (Invocation, error) {
	fs := flag.NewFlagSet("taskrunner", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // parsing errors are returned, not printed

	var inv Invocation
	fs.BoolVar(&inv.Verbose, "verbose", false, "Verbose output.")
	fs.BoolVar(&inv.Verbose, "v", false, "Verbose output (shorthand).")
	fs.BoolVar(&inv.Quiet, "quiet", false, "Do not output anything except errors.")
	fs.BoolVar(&inv.Quiet, "q", false, "Quiet (shorthand).")
	fs.BoolVar(&inv.DryRun, "dry_run", false, "Only show the intended commands, without running anything.")
	fs.BoolVar(&inv.DryRun, "d", false, "Dry run (shorthand).")
	fs.BoolVar(&inv.TextOnly, "text-only", false, "Only show task text, omitting command output.")
	fs.BoolVar(&inv.TextOnly, "t", false, "Text only (shorthand).")
	fs.BoolVar(&inv.CheckOnly, "check-only", false, "Only validate the taskfile and exit.")
	fs.BoolVar(&inv.CheckOnly, "c", false, "Check only (shorthand).")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}

	switch fs.NArg() {
	case 0:
		return Invocation{}, invalidInvocationf("a taskfile path is required")
	case 1:
		inv.TaskfilePath = fs.Arg(0)
	default:
		return Invocation{}, invalidInvocationf("unexpected extra arguments: %q", strings.Join(fs.Args()[1:], " "))
	}

	if inv.Verbose && inv.Quiet {
		return Invocation{}, invalidInvocationf("--verbose and --quiet are mutually exclusive")
	}
	return inv, nil
}

// ExitCode extracts the semantic exit code from a ParseInvocation error.
func ExitCode(err error) int {
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	if err == nil {
		return ExitSuccess
	}
	return ExitInternalError
}
