// Package main provides the zwatch daemon process entrypoint.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rbright/zwatch/internal/app"
)

func main() {
	os.Exit(run())
}

// run wires SIGINT/SIGTERM to daemon shutdown and returns the process exit code.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}
