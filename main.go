package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"trackmatch/internal"
	"trackmatch/internal/ui"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := internal.NewLogger(os.Getenv("TRACKMATCH_ENV"))
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := ui.NewConsole(logger).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
