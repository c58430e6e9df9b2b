package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

var (
	// ErrCommandFailed marks an exit code that does not match the expected
	// success code.
	ErrCommandFailed = errors.New("command failed")

	// ErrInvalidWorkDir marks a cwd override that does not exist.
	ErrInvalidWorkDir = errors.New("invalid working directory")
)

// Command is a fully resolved command ready for execution.
//
// Shell commands run through "sh -c" and get pipes, redirection and
// globbing. Argv commands run the program directly with no shell
// interpretation. The variant is decided at document load time, never
// inferred here.
type Command struct {
	Shell bool
	Line  string   // shell form
	Argv  []string // argv form
	Dir   string   // optional cwd override, "" means the process cwd
}

// Display returns the command as shown in dry-run and debug output.
func (c Command) Display() string {
	if c.Shell {
		return c.Line
	}
	return strings.Join(c.Argv, " ")
}

// ExecutionResult holds the captured outcome of one command execution.
type ExecutionResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandError is the failure outcome of an execution whose exit code did
// not match the expected success code. It carries the captured result for
// diagnostics.
type CommandError struct {
	Command  string
	Expected int
	Result   *ExecutionResult
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: exit code %d, expected %d",
		e.Command, e.Result.ExitCode, e.Expected)
}

func (e *CommandError) Unwrap() error { return ErrCommandFailed }

// Executor runs resolved commands as child processes.
//
// Children inherit the parent environment unmodified; the per-command cwd
// override is the only environment knob. The executor blocks until the
// child exits or the context is cancelled, in which case the child's whole
// process group is killed.
type Executor struct{}

// NewExecutor returns an Executor.
func NewExecutor() *Executor { return &Executor{} }

// Run executes cmd and enforces the expected-success-code contract.
//
// Success is exitCode == expected, not exitCode == 0; this lets a check
// like "grep found nothing" declare success: 1. On mismatch Run returns
// the result together with a *CommandError wrapping ErrCommandFailed.
// Infrastructure failures (bad cwd, unstartable command, cancellation)
// return a nil result.
func (e *Executor) Run(ctx context.Context, cmd Command, expected int) (*ExecutionResult, error) {
	dir, err := resolveDir(cmd.Dir)
	if err != nil {
		return nil, err
	}

	var c *exec.Cmd
	if cmd.Shell {
		c = exec.CommandContext(ctx, "sh", "-c", cmd.Line)
	} else {
		if len(cmd.Argv) == 0 {
			return nil, fmt.Errorf("empty argv command")
		}
		c = exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	}
	c.Dir = dir

	// Own process group so cancellation kills the entire child tree.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Start(); err != nil {
		return nil, fmt.Errorf("starting %q: %w", cmd.Display(), err)
	}

	done := make(chan error, 1)
	go func() { done <- c.Wait() }()

	var waitErr error
	select {
	case <-ctx.Done():
		if c.Process != nil {
			syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
		}
		<-done
		return nil, fmt.Errorf("execution cancelled: %w", ctx.Err())
	case waitErr = <-done:
	}

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("executing %q: %w", cmd.Display(), waitErr)
		}
	}

	result := &ExecutionResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exitCode,
	}
	if exitCode != expected {
		return result, &CommandError{Command: cmd.Display(), Expected: expected, Result: result}
	}
	return result, nil
}

// resolveDir expands a leading "~" and verifies the directory exists.
func resolveDir(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidWorkDir, err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrInvalidWorkDir, dir)
	}
	return dir, nil
}
