package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"taskrunner/internal/engine"
	"taskrunner/internal/logging"
	"taskrunner/internal/taskfile"
)

const version = "0.3.0"

// CLIResult carries the process exit code.
type CLIResult struct {
	ExitCode int
}

// Run is the high-level CLI entrypoint, suitable for black-box tests. It
// accepts the argument slice (excluding argv[0]) and returns the semantic
// exit code.
func Run(ctx context.Context, args []string) (CLIResult, error) {
	inv, err := ParseInvocation(args)
	if err != nil {
		return CLIResult{ExitCode: ExitCode(err)}, err
	}
	return Execute(ctx, inv)
}

// Execute loads the document and drives the engine.
//
// Failures past argument parsing are reported through the logger and
// surface only as the exit code; the returned error stays nil so the
// caller never reports them twice.
func Execute(ctx context.Context, inv Invocation) (CLIResult, error) {
	log := logging.New(inv.Verbose, inv.Quiet)
	bold := color.New(color.Bold)

	log.Info(color.New(color.Bold, color.FgCyan).Sprintf("[taskrunner %s]", version))
	if abs, err := filepath.Abs(inv.TaskfilePath); err == nil {
		log.Infof("Task File: %s", bold.Sprint(abs))
	}
	if inv.DryRun {
		log.Infof("Dry Run: %s", bold.Sprint("true"))
	}

	doc, err := taskfile.Load(inv.TaskfilePath)
	if err != nil {
		log.Error(err)
		return CLIResult{ExitCode: ExitDocumentInvalid}, nil
	}
	log.Infof("Variables: %s", bold.Sprint(len(doc.Variables)))
	log.Infof("Helpers: %s", bold.Sprint(len(doc.Helpers)))
	log.Infof("Tasks: %s", bold.Sprint(len(doc.Tasks)))

	if inv.CheckOnly {
		log.Info("Taskfile is valid.")
		return CLIResult{ExitCode: ExitSuccess}, nil
	}

	log.Info("---")
	log.Infof("Started: %s", bold.Sprint(time.Now().Format(time.RFC3339)))

	runner := engine.New(doc, engine.Options{
		DryRun:   inv.DryRun,
		TextOnly: inv.TextOnly,
		Log:      log,
	})
	result, _ := runner.Run(ctx) // failures are logged by the runner

	log.Infof("Ended: %s", bold.Sprint(time.Now().Format(time.RFC3339)))

	switch {
	case result.Interrupted:
		log.Error("Aborted by user.")
		return CLIResult{ExitCode: ExitInterrupted}, nil
	case result.Failed:
		return CLIResult{ExitCode: ExitTaskFailure}, nil
	default:
		return CLIResult{ExitCode: ExitSuccess}, nil
	}
}
