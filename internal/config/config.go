package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

type EmailConfig struct {
	Sender            string
	Password          string
	SMTPServer        string
	SMTPPort          int
	PrimaryRecipients []string
	CCRecipients      []string
}

type Config struct {
	// Input
	InputPath      string
	InputFormat    string // csv, xlsx or sheet
	ExcelSheetName string

	// Output
	OutputDir string

	// History
	HistoryBackend string // file or sqlite
	HistoryPath    string
	SQLiteDBPath   string
	Lineage        string

	// Policies
	RetentionDays       int
	MaxRowErrorFraction float64

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets source
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Email (consumed by the delivery worker, never by the engine)
	Email EmailConfig
}

func Load() *Config {
	cfg := &Config{
		InputPath:      getEnv("INPUT_PATH", ""),
		InputFormat:    getEnv("INPUT_FORMAT", "csv"),
		ExcelSheetName: getEnv("EXCEL_SHEET_NAME", ""),

		OutputDir: getEnv("OUTPUT_DIR", "./reports"),

		HistoryBackend: getEnv("HISTORY_BACKEND", "file"),
		HistoryPath:    getEnv("HISTORY_PATH", "./reports/campaign_history"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/auditor.db"),
		Lineage:        getEnv("REPORT_LINEAGE", "default"),

		RetentionDays:       getEnvInt("RETENTION_DAYS", 30),
		MaxRowErrorFraction: getEnvFloat("MAX_ROW_ERROR_FRACTION", 0.5),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "auditor"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_ready"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", ""),

		Email: EmailConfig{
			Sender:            getEnv("EMAIL_SENDER", ""),
			Password:          getEnv("EMAIL_SENDER_PASSWORD", ""),
			SMTPServer:        getEnv("EMAIL_SMTP_SERVER", "smtp.office365.com"),
			SMTPPort:          getEnvInt("EMAIL_SMTP_PORT", 587),
			PrimaryRecipients: splitRecipients(getEnv("EMAIL_PRIMARY_RECIPIENTS", "")),
			CCRecipients:      splitRecipients(getEnv("EMAIL_CC_RECIPIENTS", "")),
		},
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	switch c.InputFormat {
	case "csv", "xlsx":
		if c.InputPath == "" {
			errors = append(errors, fmt.Sprintf("INPUT_PATH is required for the %s input format", c.InputFormat))
		}
	case "sheet":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "GOOGLE_SPREADSHEET_ID is required for the sheet input format")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid input format '%s': must be one of [csv xlsx sheet]", c.InputFormat))
	}

	switch c.HistoryBackend {
	case "file":
		if c.HistoryPath == "" {
			errors = append(errors, "history path cannot be empty when using the file backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using the sqlite backend")
		}
	case "memory":
		// valid, test-only
	default:
		errors = append(errors, fmt.Sprintf("invalid history backend '%s': must be one of [file sqlite memory]", c.HistoryBackend))
	}

	if c.OutputDir == "" {
		errors = append(errors, "output directory cannot be empty")
	}

	if c.RetentionDays < 0 {
		errors = append(errors, fmt.Sprintf("invalid retention days %d: must not be negative", c.RetentionDays))
	}
	if c.MaxRowErrorFraction < 0 || c.MaxRowErrorFraction > 1 {
		errors = append(errors, fmt.Sprintf("invalid max row error fraction %g: must be between 0 and 1", c.MaxRowErrorFraction))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Email is optional, but a configured sender must be usable
	if c.Email.Sender != "" {
		if c.Email.Password == "" {
			errors = append(errors, "EMAIL_SENDER_PASSWORD is required when EMAIL_SENDER is set")
		}
		if len(c.Email.PrimaryRecipients) == 0 {
			errors = append(errors, "EMAIL_PRIMARY_RECIPIENTS is required when EMAIL_SENDER is set")
		}
		if c.Email.SMTPPort < 1 || c.Email.SMTPPort > 65535 {
			errors = append(errors, fmt.Sprintf("invalid SMTP port %d: must be between 1 and 65535", c.Email.SMTPPort))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func splitRecipients(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
