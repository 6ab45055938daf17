package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"auditor/internal/amqp"
	"auditor/internal/config"
	"auditor/internal/history"
	"auditor/internal/log"
	"auditor/internal/services"
	"auditor/internal/source"
	"auditor/internal/source/csvfile"
	"auditor/internal/source/excel"
	"auditor/internal/source/sheets"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Audit run failed", log.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	src, err := buildSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build input source: %w", err)
	}

	store, cleanup, err := history.Open(history.BackendConfig{
		Backend:      cfg.HistoryBackend,
		Path:         cfg.HistoryPath,
		SQLiteDBPath: cfg.SQLiteDBPath,
		Lineage:      cfg.Lineage,
	}, logger.WithComponent(log.ComponentHistory).Logger)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	processor := services.NewRunProcessor(src, store, services.RunConfig{
		OutputDir:           cfg.OutputDir,
		MaxRowErrorFraction: cfg.MaxRowErrorFraction,
		PrimaryRecipients:   cfg.Email.PrimaryRecipients,
		CCRecipients:        cfg.Email.CCRecipients,
	})

	result, err := processor.Run(ctx)
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		logger.Warn("Run completed with warning", "warning", warning)
	}

	if cfg.AMQPURL != "" {
		if err := publishReportReady(ctx, cfg, result, logger); err != nil {
			// The reports are on disk either way; delivery can be retried.
			logger.Warn("Failed to announce report", log.FieldError, err)
		}
	}

	logger.Info("Audit run finished",
		log.FieldLineage, cfg.Lineage,
		log.FieldCampaigns, result.CampaignCount,
		log.FieldChanges, result.ChangesDetected,
		log.FieldRowErrors, len(result.RowErrors),
		log.FieldDocument, result.ReportPaths.Document,
		log.FieldPlaintext, result.ReportPaths.Plaintext)

	return nil
}

func buildSource(ctx context.Context, cfg *config.Config) (source.RowSource, error) {
	switch cfg.InputFormat {
	case "csv":
		return csvfile.New(cfg.InputPath), nil
	case "xlsx":
		return excel.New(cfg.InputPath, cfg.ExcelSheetName), nil
	case "sheet":
		return sheets.NewFromEnv(ctx)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", cfg.InputFormat)
	}
}

func publishReportReady(ctx context.Context, cfg *config.Config, result *services.RunResult, logger *log.Logger) error {
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect to AMQP: %w", err)
	}
	defer client.Close()

	return client.PublishReportReady(ctx, &amqp.ReportReadyMessage{
		ReportDate:        time.Now().Format("2006-01-02"),
		DocumentPath:      result.ReportPaths.Document,
		PlaintextPath:     result.ReportPaths.Plaintext,
		CampaignCount:     result.CampaignCount,
		ChangesDetected:   result.ChangesDetected,
		PrimaryRecipients: result.PrimaryRecipients,
		CCRecipients:      result.CCRecipients,
		Timestamp:         time.Now(),
	})
}
