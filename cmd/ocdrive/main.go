package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ocdrive/ocdrive/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.Execute(ctx); err != nil {
		cmd.PrintError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
