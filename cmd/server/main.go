package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/DKZomb0/Wieler/app"
	"github.com/DKZomb0/Wieler/app/observability"
	"github.com/DKZomb0/Wieler/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load config
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize observability
	obs := observability.New(observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		Environment:    cfg.Observability.Environment,
		LogLevel:       cfg.Observability.LogLevel,
		LogFormat:      cfg.Observability.LogFormat,
		MetricsEnabled: cfg.Observability.MetricsEnabled,
	}, os.Stdout)
	logger := obs.Logger
	logger.Info("Starting Wieler API",
		attr.String("environment", cfg.Observability.Environment),
		attr.String("address", cfg.HTTP.Address),
	)

	application, err := app.NewApp(ctx, cfg, obs)
	if err != nil {
		logger.Error("Failed to initialize app", attr.Error(err))
		os.Exit(1)
	}

	runErr := application.Run(ctx)
	if runErr != nil {
		logger.Error("Application stopped with error", attr.Error(runErr))
	}

	logger.Info("Shutting down Wieler API")
	if err := application.Close(); err != nil {
		logger.Error("Error during shutdown", attr.Error(err))
	}

	if runErr != nil {
		os.Exit(1)
	}
	logger.Info("Wieler API stopped")
}
