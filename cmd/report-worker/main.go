package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"auditor/internal/amqp"
	"auditor/internal/config"
	"auditor/internal/log"
	"auditor/internal/mail"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentWorker})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the delivery worker")
		os.Exit(1)
	}

	mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Sender:   cfg.Email.Sender,
		Password: cfg.Email.Password,
		Server:   cfg.Email.SMTPServer,
		Port:     cfg.Email.SMTPPort,
	})
	if err != nil {
		logger.Error("Invalid mailer configuration", log.FieldError, err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Delivery worker started", "queue", cfg.AMQPQueue)

	err = client.ConsumeReportReady(ctx, func(msg *amqp.ReportReadyMessage) error {
		return deliver(ctx, mailer, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Delivery worker stopped")
}

// deliver mails one finished report: plaintext body from the email
// artifact, the document report attached.
func deliver(ctx context.Context, mailer mail.Mailer, msg *amqp.ReportReadyMessage) error {
	body, err := os.ReadFile(msg.PlaintextPath)
	if err != nil {
		return fmt.Errorf("read plaintext artifact: %w", err)
	}

	var attachment []byte
	if msg.DocumentPath != "" {
		attachment, err = os.ReadFile(msg.DocumentPath)
		if err != nil {
			return fmt.Errorf("read document artifact: %w", err)
		}
	}

	return mailer.Send(ctx, mail.Report{
		Date:              msg.ReportDate,
		Body:              string(body),
		AttachmentName:    filepath.Base(msg.DocumentPath),
		Attachment:        attachment,
		PrimaryRecipients: msg.PrimaryRecipients,
		CCRecipients:      msg.CCRecipients,
	})
}
