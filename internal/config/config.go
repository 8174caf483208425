package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the server.
type Config struct {
	ListenAddr     string
	DatabaseURL    string
	TelegramToken  string
	TelegramChatID int64
	ReportTime     string
	ReportInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:     strings.TrimSpace(os.Getenv("LISTEN_ADDR")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		ReportTime:     strings.TrimSpace(os.Getenv("REPORT_TIME")),
		ReportInterval: parseInterval(strings.TrimSpace(os.Getenv("REPORT_INTERVAL_HOURS"))),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "todo_planner.db"
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer: %w", err)
		}
		cfg.TelegramChatID = chatID
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	if cfg.ReportInterval == 0 && cfg.ReportTime == "" {
		cfg.ReportInterval = 5 * time.Hour
	}

	return cfg, nil
}

// ReportsEnabled reports whether the Telegram daily summary is configured.
func (c Config) ReportsEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
