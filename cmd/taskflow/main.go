package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Makepad-fr/taskflow/internal/cli"
)

func main() {
	// Storage calls are cancelled on Ctrl-C / SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Main(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if code == cli.ExitUsage {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
