package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"taskrunner/internal/core"
	"taskrunner/internal/taskfile"
)

// defaultPrompt is shown for "require_input: true" without a message.
const defaultPrompt = "Press ENTER to continue."

// Options configures a Runner. Quiet and verbose modes are carried by the
// logger's level, not by the runner itself.
type Options struct {
	DryRun   bool
	TextOnly bool

	// Stdin supplies require_input lines. Defaults to os.Stdin.
	Stdin io.Reader

	// PromptOut receives require_input prompts. Defaults to os.Stdout.
	PromptOut io.Writer

	// Log defaults to the logrus standard logger.
	Log *logrus.Logger
}

// Runner executes a document's tasks strictly in declaration order.
//
// The runner exclusively owns the variable store: it seeds it from the
// document's declared variables and writes captured outputs and user input
// back under "<task>_output" between task boundaries. Tasks never mutate
// the store themselves.
type Runner struct {
	doc     *taskfile.Document
	store   *core.Store
	exec    *core.Executor
	prereqs *PrereqChecker
	log     *logrus.Logger

	stdin     *bufio.Reader
	promptOut io.Writer

	dryRun   bool
	textOnly bool
}

// New builds a Runner for doc.
func New(doc *taskfile.Document, opts Options) *Runner {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	promptOut := opts.PromptOut
	if promptOut == nil {
		promptOut = os.Stdout
	}

	store := core.NewStore()
	for _, decl := range doc.Variables {
		store.Set(decl.Name, decl.Value)
	}

	exec := core.NewExecutor()
	return &Runner{
		doc:   doc,
		store: store,
		exec:  exec,
		prereqs: &PrereqChecker{
			Helpers: doc.Helpers,
			Exec:    exec,
			Log:     log,
			DryRun:  opts.DryRun,
		},
		log:       log,
		stdin:     bufio.NewReader(stdin),
		promptOut: promptOut,
		dryRun:    opts.DryRun,
		textOnly:  opts.TextOnly,
	}
}

// Store exposes the variable store for inspection after a run.
func (r *Runner) Store() *core.Store { return r.store }

// Run executes the task sequence.
//
// A FAILED task aborts the remaining sequence (later tasks may depend on
// earlier outputs) and is returned as the error; tasks never started stay
// PENDING in the result. A SKIPPED task is reported and the run continues.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	res := &RunResult{FinalState: make(map[string]TaskState, len(r.doc.Tasks))}
	for _, t := range r.doc.Tasks {
		res.FinalState[t.Name] = StatePending
	}

	if r.doc.Information != "" {
		r.log.Infof("Information: %s", r.doc.Information)
	}

	for i := range r.doc.Tasks {
		t := &r.doc.Tasks[i]
		if ctx.Err() != nil {
			res.Interrupted = true
			return res, nil
		}

		err := r.runTask(ctx, t, res)
		state := res.FinalState[t.Name]
		status := TaskStatus{Name: t.Name, State: state}
		if err != nil {
			status.Reason = err.Error()
		}
		res.Statuses = append(res.Statuses, status)

		r.fireHooks(ctx, t, state)

		switch state {
		case StateSkipped:
			r.log.Errorf("%s - skipped: %v", t.Name, err)
		case StateFailed:
			res.Failed = true
			if errors.Is(err, ErrInterrupted) {
				res.Interrupted = true
			}
			r.log.Error(err)
			// The failure report always carries what the child printed,
			// independent of show_output and text-only display settings.
			var terr *TaskError
			if errors.As(err, &terr) && terr.Output != "" {
				r.log.Error(terr.Output)
			}
			return res, err
		}
	}
	return res, nil
}

// runTask drives one task through its state machine, mutating the result's
// state map via validated transitions.
func (r *Runner) runTask(ctx context.Context, t *taskfile.Task, res *RunResult) error {
	states := res.FinalState
	cur := StatePending
	advance := func(to TaskState) error {
		if err := Transition(states, t.Name, cur, to); err != nil {
			return err
		}
		cur = to
		return nil
	}
	fail := func(output string, err error) error {
		stage := cur
		states[t.Name] = StateFailed
		return taskErr(t.Name, stage, output, err)
	}

	r.announce(t)

	if len(t.Prerequisites) > 0 {
		if err := advance(StatePrereqCheck); err != nil {
			return fail("", err)
		}
		if err := r.prereqs.Check(ctx, t.Prerequisites, r.store); err != nil {
			if ctx.Err() != nil {
				return fail("", ErrInterrupted)
			}
			if terr := advance(StateSkipped); terr != nil {
				return fail("", terr)
			}
			return err
		}
	}

	if t.RequireInput.Required {
		if err := advance(StateInputWait); err != nil {
			return fail("", err)
		}
		// Dry runs store nothing, so later printed commands keep the
		// unresolved variables.<task>_output reference visible.
		if !r.dryRun {
			r.store.Set(t.Name+"_output", core.Text(r.readInput(t)))
		}
	}

	if err := advance(StateSubstituting); err != nil {
		return fail("", err)
	}
	commands, err := r.resolveCommands(t)
	if err != nil {
		return fail("", err)
	}

	if t.Run.IsZero() {
		// Nothing to run: the task exists to display text or gather input.
		if err := advance(StateCompleted); err != nil {
			return fail("", err)
		}
		return nil
	}

	if r.dryRun {
		for _, cmd := range commands {
			r.log.Info(dryRunLine(cmd))
		}
		if err := advance(StateCompleted); err != nil {
			return fail("", err)
		}
		return nil
	}

	if err := advance(StateExecuting); err != nil {
		return fail("", err)
	}
	res.ExecutionOrder = append(res.ExecutionOrder, t.Name)

	var outLines []string
	for _, cmd := range commands {
		r.log.Debugf("Running (Shell: %t, CWD: %s): %s", cmd.Shell, displayDir(cmd.Dir), cmd.Display())

		result, runErr := r.exec.Run(ctx, cmd, t.Success)
		if result != nil {
			outLines = appendOutput(outLines, result.Stdout)
			r.displayOutput(t, result.Stdout)
		}
		if runErr != nil {
			if ctx.Err() != nil {
				return fail(strings.Join(outLines, "\n"), ErrInterrupted)
			}
			return fail(failureDiagnostics(outLines, runErr), runErr)
		}
	}

	combined := strings.Join(outLines, "\n")
	if t.Check != nil && !t.Check.MatchString(combined) {
		return fail(combined, fmt.Errorf("%w: pattern %q not found", ErrCheckFailed, t.CheckPattern))
	}

	if err := advance(StateCompleted); err != nil {
		return fail(combined, err)
	}
	// Storage is independent of display: the output is captured even when
	// show_output is off.
	r.store.Set(t.Name+"_output", core.Text(combined))
	return nil
}

// announce displays the task's substituted text before anything runs,
// independent of the task's eventual outcome.
func (r *Runner) announce(t *taskfile.Task) {
	if t.Text == "" {
		return
	}
	text := core.SubstituteBestEffort(t.Text, r.store)
	r.log.Infof("%s - %s", color.New(color.Underline).Sprintf("Task %s", t.Name), text)
}

// readInput prompts and blocks for one line.
func (r *Runner) readInput(t *taskfile.Task) string {
	prompt := t.RequireInput.Message
	if prompt == "" {
		prompt = defaultPrompt
	}
	fmt.Fprintf(r.promptOut, "%s ", prompt)
	line, err := r.stdin.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimRight(line, "\r\n")
}

// resolveCommands substitutes variables into the run specification and
// expands the each-source, producing the final command list.
func (r *Runner) resolveCommands(t *taskfile.Task) ([]core.Command, error) {
	if t.Run.IsZero() {
		return nil, nil
	}

	base := core.Command{Shell: t.Run.IsShell(), Dir: t.Cwd}
	if base.Shell {
		line, err := r.substitute(t.Run.Shell)
		if err != nil {
			return nil, err
		}
		base.Line = line
	} else {
		argv := make([]string, len(t.Run.Argv))
		for i, arg := range t.Run.Argv {
			a, err := r.substitute(arg)
			if err != nil {
				return nil, err
			}
			argv[i] = a
		}
		base.Argv = argv
	}

	if t.Each.IsZero() {
		return []core.Command{base}, nil
	}

	items, err := r.resolveEach(t.Each)
	if err != nil {
		return nil, err
	}
	// Every "{}" placeholder receives the current iteration item.
	commands := make([]core.Command, 0, len(items))
	for _, item := range items {
		cmd := base
		if cmd.Shell {
			cmd.Line = strings.ReplaceAll(base.Line, "{}", item)
		} else {
			argv := make([]string, len(base.Argv))
			for i, arg := range base.Argv {
				argv[i] = strings.ReplaceAll(arg, "{}", item)
			}
			cmd.Argv = argv
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}

// resolveEach produces the iteration items: a variable reference resolves
// through the store's iteration contract, an inline list is substituted
// item by item.
func (r *Runner) resolveEach(e taskfile.EachSpec) ([]string, error) {
	if e.Ref != "" {
		v, err := r.store.Resolve(e.Ref)
		if err != nil {
			if r.dryRun {
				return nil, nil
			}
			return nil, err
		}
		return v.Items(), nil
	}
	items := make([]string, len(e.Items))
	for i, item := range e.Items {
		resolved, err := r.substitute(item)
		if err != nil {
			return nil, err
		}
		items[i] = resolved
	}
	return items, nil
}

// substitute applies variable substitution; in dry-run mode undefined
// references are left in place so the command still prints.
func (r *Runner) substitute(s string) (string, error) {
	if r.dryRun {
		return core.SubstituteBestEffort(s, r.store), nil
	}
	return core.Substitute(s, r.store)
}

// fireHooks runs the task's on_success/on_failure helper, best-effort.
// A hook failure is reported but never changes the task's outcome.
func (r *Runner) fireHooks(ctx context.Context, t *taskfile.Task, state TaskState) {
	if ctx.Err() != nil {
		return
	}
	var ref *taskfile.PrereqRef
	switch state {
	case StateCompleted:
		ref = t.OnSuccess
	case StateFailed:
		ref = t.OnFailure
	}
	if ref == nil {
		return
	}
	if err := r.prereqs.RunHook(ctx, *ref, r.store); err != nil {
		r.log.Errorf("%s - %s hook failed: %v", t.Name, ref.Raw, err)
	}
}

// displayOutput shows a command's captured stdout. Display honors
// show_output, text-only mode and the log level; storage does not.
func (r *Runner) displayOutput(t *taskfile.Task, stdout []byte) {
	out := strings.TrimRight(string(stdout), "\n")
	if out == "" {
		return
	}
	for _, line := range strings.Split(out, "\n") {
		if t.ShowOutput && !r.textOnly {
			r.log.Info(line)
		} else {
			r.log.Debug(line)
		}
	}
}

// failureDiagnostics joins the captured stdout with the failing command's
// stderr so the failure report carries everything the child printed.
func failureDiagnostics(lines []string, err error) string {
	var cmdErr *core.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Result != nil {
		if msg := strings.TrimRight(string(cmdErr.Result.Stderr), "\n"); msg != "" {
			lines = append(lines, strings.Split(msg, "\n")...)
		}
	}
	return strings.Join(lines, "\n")
}

func appendOutput(lines []string, stdout []byte) []string {
	out := strings.TrimRight(string(stdout), "\n")
	if out == "" {
		return lines
	}
	return append(lines, strings.Split(out, "\n")...)
}
