package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tartampluch/go-contacts/internal/cli"
)

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// are executed before the process terminates.
// os.Exit() does not run defers, so we must return an integer code first.
func main() {
	os.Exit(runMain())
}

// runMain creates a root context that cancels on SIGINT (Ctrl+C) or SIGTERM
// and runs the command line.
func runMain() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return cli.Execute(ctx, os.Args[1:])
}
