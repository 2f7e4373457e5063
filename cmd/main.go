package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fyrxlab.net/solvermotd/internal/application/ports"
	"fyrxlab.net/solvermotd/internal/interfaces/cli"
	"fyrxlab.net/solvermotd/internal/interfaces/di"
)

func main() {
	os.Exit(run())
}

func run() int {
	container, err := di.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		container.Logger.Log(ports.LogLevelInfo, "Received shutdown signal, shutting down gracefully...", nil)
		cancel()
	}()

	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	if err := cli.Run(ctx, container.GetCLIContainer(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
