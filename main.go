package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/hbomb79/Trove/internal"
	"github.com/hbomb79/Trove/pkg/logger"
)

var mainLogger = logger.Get("Main")

// main is the entry point to Trove. The configuration is loaded from the
// YAML file given by the -config flag (if any) and the environment, after
// which Trove runs until it receives an interrupt.
func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	var config internal.TroveConfig
	if err := config.LoadFromFile(*configPath); err != nil {
		mainLogger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.SetMinLoggingLevel(config.MinLogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := internal.New(config).Run(ctx); err != nil {
		mainLogger.Fatalf("Trove failed: %v", err)
	}
}
