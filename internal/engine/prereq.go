package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"taskrunner/internal/core"
	"taskrunner/internal/taskfile"
)

// PrereqChecker runs helper invocations as task preconditions.
//
// Checks run in declared order; the first failure short-circuits and the
// remaining prerequisites are not evaluated. A helper succeeds when its
// exit code matches its own success code, which may be non-zero.
type PrereqChecker struct {
	Helpers map[string]taskfile.Helper
	Exec    *core.Executor
	Log     *logrus.Logger
	DryRun  bool
}

// Check evaluates the prerequisite references for a task. A failure is
// reported as an error wrapping ErrPrerequisiteFailed; context cancellation
// propagates unchanged.
func (c *PrereqChecker) Check(ctx context.Context, refs []taskfile.PrereqRef, store *core.Store) error {
	for _, ref := range refs {
		if err := c.runHelper(ctx, ref, store); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %s: %v", ErrPrerequisiteFailed, ref.Raw, err)
		}
	}
	return nil
}

// RunHook runs an on_success/on_failure helper reference. Hooks are
// best-effort: the caller logs the returned error and moves on.
func (c *PrereqChecker) RunHook(ctx context.Context, ref taskfile.PrereqRef, store *core.Store) error {
	return c.runHelper(ctx, ref, store)
}

// runHelper resolves a helper template and executes it. Variable
// substitution runs first on the template and the subject arguments, then
// positional formatting fills the "{}" placeholders.
func (c *PrereqChecker) runHelper(ctx context.Context, ref taskfile.PrereqRef, store *core.Store) error {
	h, ok := c.Helpers[ref.Helper]
	if !ok {
		return fmt.Errorf("unknown helper %q", ref.Helper)
	}

	line, err := core.Substitute(h.Run, store)
	if err != nil {
		return err
	}
	args := make([]string, len(ref.Args))
	for i, a := range ref.Args {
		if args[i], err = core.Substitute(a, store); err != nil {
			return err
		}
	}
	line = core.Format(line, args...)

	cmd := core.Command{Shell: h.Shell, Line: line}
	if !h.Shell {
		cmd.Argv = strings.Fields(line)
	}

	if h.Text != "" {
		c.Log.Infof("Prerequisite %s - %s", color.New(color.Bold).Sprint(h.Name), h.Text)
	}
	if c.DryRun {
		c.Log.Info(dryRunLine(cmd))
		return nil
	}
	c.Log.Debugf("Running helper %s (Shell: %t): %s", h.Name, h.Shell, cmd.Display())

	result, err := c.Exec.Run(ctx, cmd, h.Success)
	if err != nil {
		if result != nil {
			return fmt.Errorf("%s failed with %d: %s", h.Name, result.ExitCode,
				strings.TrimSpace(string(result.Stdout)+string(result.Stderr)))
		}
		return err
	}
	return nil
}

// dryRunLine formats the gray DRY RUN announcement for a command.
func dryRunLine(cmd core.Command) string {
	prefix := color.New(color.Faint).Sprint("DRY RUN")
	return fmt.Sprintf("%s (Shell: %t, CWD: %s): %s", prefix, cmd.Shell, displayDir(cmd.Dir), cmd.Display())
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
