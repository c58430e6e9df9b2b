package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	icl "taskrunner/internal/cli"
)

func writeTaskfile(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.yml")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestCLI_SuccessfulRun(t *testing.T) {
	path := writeTaskfile(t, `
tasks:
  hello:
    run: echo hello
`)
	res, err := icl.Run(context.Background(), []string{"--quiet", path})
	require.NoError(t, err)
	assert.Equal(t, icl.ExitSuccess, res.ExitCode)
}

func TestCLI_TaskFailureExitCode(t *testing.T) {
	path := writeTaskfile(t, `
tasks:
  bad:
    run: exit 7
`)
	res, err := icl.Run(context.Background(), []string{"--quiet", path})
	require.NoError(t, err)
	assert.Equal(t, icl.ExitTaskFailure, res.ExitCode)
}

func TestCLI_InvalidInvocation(t *testing.T) {
	res, err := icl.Run(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, icl.ExitInvalidInvocation, res.ExitCode)
}

func TestCLI_InvalidDocument(t *testing.T) {
	path := writeTaskfile(t, `
tasks:
  broken: not a mapping
`)
	res, err := icl.Run(context.Background(), []string{"--quiet", path})
	require.NoError(t, err)
	assert.Equal(t, icl.ExitDocumentInvalid, res.ExitCode)
}

func TestCLI_MissingTaskfile(t *testing.T) {
	res, _ := icl.Run(context.Background(), []string{"--quiet", "/no/such/tasks.yml"})
	assert.Equal(t, icl.ExitDocumentInvalid, res.ExitCode)
}

func TestCLI_CheckOnlyValidatesWithoutExecuting(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "mark")
	path := writeTaskfile(t, `
tasks:
  sideeffect:
    run: touch `+marker+`
`)
	res, err := icl.Run(context.Background(), []string{"--quiet", "--check-only", path})
	require.NoError(t, err)
	assert.Equal(t, icl.ExitSuccess, res.ExitCode)
	assert.NoFileExists(t, marker)
}

func TestCLI_CheckOnlyRejectsInvalidDocument(t *testing.T) {
	path := writeTaskfile(t, `
tasks:
  empty: {}
`)
	res, _ := icl.Run(context.Background(), []string{"--quiet", "--check-only", path})
	assert.Equal(t, icl.ExitDocumentInvalid, res.ExitCode)
}

func TestCLI_DryRunSpawnsNoChildren(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "mark")
	path := writeTaskfile(t, `
tasks:
  sideeffect:
    run: touch `+marker+`
`)
	res, err := icl.Run(context.Background(), []string{"--quiet", "--dry_run", path})
	require.NoError(t, err)
	assert.Equal(t, icl.ExitSuccess, res.ExitCode)
	assert.NoFileExists(t, marker)
}

func TestCLI_SkippedTaskDoesNotFailRun(t *testing.T) {
	path := writeTaskfile(t, `
helpers:
  command_exists:
    run: command -v {}
    shell: true
tasks:
  guarded:
    run: echo never
    prerequisites: helpers.command_exists(definitely_not_installed_zz)
  after:
    run: echo fine
`)
	res, err := icl.Run(context.Background(), []string{"--quiet", path})
	require.NoError(t, err)
	assert.Equal(t, icl.ExitSuccess, res.ExitCode)
}

func TestCLI_InterruptedRunExitCode(t *testing.T) {
	path := writeTaskfile(t, `
tasks:
  slow:
    run: sleep 10
`)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	res, err := icl.Run(ctx, []string{"--quiet", path})
	require.NoError(t, err)
	assert.Equal(t, icl.ExitInterrupted, res.ExitCode)
}
