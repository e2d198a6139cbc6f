package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the portfolio backend.
type Config struct {
	BindAddr         string
	Env              string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	DatabaseURL string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	ResendAPIKey string
	AdminEmail   string
	MailDomain   string

	CronSecret string
	AdminToken string

	ProfilePath string

	ContactRateLimit  int
	ContactRateWindow time.Duration
	ChatDailyLimit    int
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:          envOrDefault("APP_BIND_ADDR", ":8080"),
		Env:               envOrDefault("APP_ENV", "production"),
		MetricsNamespace:  envOrDefault("APP_METRICS_NAMESPACE", "folio"),
		AllowAnyOrigin:    false,
		DatabaseURL:       stringsTrimSpace("DATABASE_URL"),
		GeminiAPIKey:      stringsTrimSpace("GEMINI_API_KEY"),
		GeminiModel:       envOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		ResendAPIKey:      stringsTrimSpace("RESEND_API_KEY"),
		AdminEmail:        stringsTrimSpace("ADMIN_EMAIL"),
		MailDomain:        stringsTrimSpace("MAIL_DOMAIN"),
		CronSecret:        stringsTrimSpace("CRON_SECRET"),
		AdminToken:        stringsTrimSpace("ADMIN_TOKEN"),
		ProfilePath:       envOrDefault("PROFILE_PATH", "profile.yaml"),
		ShutdownTimeout:   15 * time.Second,
		GeminiTimeout:     30 * time.Second,
		ContactRateLimit:  5,
		ContactRateWindow: time.Hour,
		ChatDailyLimit:    5,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.GeminiTimeout, err = durationFromEnv("GEMINI_TIMEOUT", cfg.GeminiTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ContactRateWindow, err = durationFromEnv("CONTACT_RATE_WINDOW", cfg.ContactRateWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.ContactRateLimit, err = intFromEnv("CONTACT_RATE_LIMIT", cfg.ContactRateLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.ChatDailyLimit, err = intFromEnv("CHAT_DAILY_LIMIT", cfg.ChatDailyLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.ContactRateLimit <= 0 {
		return Config{}, fmt.Errorf("CONTACT_RATE_LIMIT must be positive")
	}
	if cfg.ContactRateWindow < time.Minute {
		return Config{}, fmt.Errorf("CONTACT_RATE_WINDOW must be at least 1m")
	}
	if cfg.ChatDailyLimit <= 0 {
		return Config{}, fmt.Errorf("CHAT_DAILY_LIMIT must be positive")
	}
	if cfg.GeminiTimeout < time.Second {
		return Config{}, fmt.Errorf("GEMINI_TIMEOUT must be at least 1s")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
