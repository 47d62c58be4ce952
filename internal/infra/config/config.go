package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the notification engine.
type AppConfig struct {
	DatabaseURL  string
	SMTPAddr     string // host:port of the outbound mail server
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	HTTPAddr     string // listen address for the popup websocket endpoint
	ScanCronSpec string // schedule of the upcoming-event scanner
	ScanTick     time.Duration
	LogLevel     string
	Environment  string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.SMTPAddr = os.Getenv("SMTP_ADDR")
	if cfg.SMTPAddr == "" {
		return nil, fmt.Errorf("SMTP_ADDR is not set")
	}

	cfg.SMTPFrom = os.Getenv("SMTP_FROM")
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = "calendar-app@localhost"
	}

	// Empty username means the relay accepts unauthenticated mail.
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8090"
	}

	cfg.ScanCronSpec = os.Getenv("SCAN_CRON_SPEC")
	if cfg.ScanCronSpec == "" {
		cfg.ScanCronSpec = "@every 1m" // Default: scan once per minute
	}

	// ScanTick must match the cron spec period: the window arithmetic sizes
	// its tolerance bands from it.
	tickSecondsStr := os.Getenv("SCAN_TICK_SECONDS")
	if tickSecondsStr == "" {
		cfg.ScanTick = 60 * time.Second
	} else {
		tickSeconds, err := strconv.Atoi(tickSecondsStr)
		if err != nil || tickSeconds <= 0 {
			return nil, fmt.Errorf("invalid SCAN_TICK_SECONDS: %q", tickSecondsStr)
		}
		cfg.ScanTick = time.Duration(tickSeconds) * time.Second
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}
