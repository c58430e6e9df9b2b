package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskrunner/internal/cli"
)

// main canonicalizes the CLI arguments before any engine logic runs and
// installs the interrupt handler: SIGINT/SIGTERM cancels the context, which
// kills the current child process group and stops the run.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := cli.Run(ctx, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(result.ExitCode)
}
