package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"auditor/internal/config"
	"auditor/internal/log"
	"auditor/internal/retention"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentRetention})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	removed, err := retention.Sweep(ctx, cfg.OutputDir, cfg.RetentionDays, time.Now())
	if err != nil {
		logger.Error("Retention sweep failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Retention sweep finished",
		"output_dir", cfg.OutputDir,
		"retention_days", cfg.RetentionDays,
		log.FieldRemoved, removed)
}
