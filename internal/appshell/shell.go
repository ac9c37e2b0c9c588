// internal/appshell/shell.go

// Package appshell owns the process edge of the exporter binary: signal
// wiring, the bare-invocation help default, and exit-code normalization.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Main runs the app entry point under SIGINT/SIGTERM cancellation and exits
// the process with its code. An interrupted run exits 130 even when the app
// reported success after cancellation.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	argv := os.Args[1:]
	if len(argv) == 0 {
		argv = []string{"-h"}
	}

	code := run(ctx, argv, os.Stdout, os.Stderr)
	if ctx.Err() != nil && code == 0 {
		code = 130
	}

	// os.Exit skips deferred calls, so release the signal handler first.
	stop()
	os.Exit(code)
}
