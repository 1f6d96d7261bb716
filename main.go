package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vit0-9/breachsignal_api/pkg/config"
	"github.com/vit0-9/breachsignal_api/pkg/logger"
)

func main() {
	cfg, dotenvErr := config.Load()

	log := logger.Must(logger.Config{
		Level:       cfg.LogLevel,
		Development: !cfg.IsProduction(),
	})
	defer func() { _ = log.Sync() }()

	if dotenvErr != nil {
		log.Warn("Error loading .env file, using environment variables from system if set", logger.Error(dotenvErr))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", logger.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", logger.Error(err))
	}
	defer app.Close()

	if err := app.Run(ctx, ":"+cfg.Port); err != nil {
		log.Error("Server stopped with error", logger.Error(err))
		app.Close()
		os.Exit(1)
	}
}
