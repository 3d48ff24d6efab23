package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/atomicstack/tuiporal/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Environ()))
}

func run(args, environ []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	return cli.Execute(ctx, args, cli.Options{
		Environ: environ,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	})
}
