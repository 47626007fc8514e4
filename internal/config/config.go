// Package config reads the runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
)

// Config is the process configuration. Zero durations disable the matching job.
type Config struct {
	DBPath     string
	ListenAddr string
	StaticPath string

	// JWTSecret enables operator authentication on the API when set.
	JWTSecret string
	TokenTTL  time.Duration

	// SweepInterval is how often the overdue check and the prize queue run.
	SweepInterval time.Duration

	BackupDir      string
	BackupInterval time.Duration
	BackupKeep     int

	// Currency is an ISO 4217 code used when formatting amounts.
	Currency string
	LogLevel slog.Level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads the configuration and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:     getEnv("DB_PATH", "./data/horses.db"),
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		StaticPath: getEnv("STATIC_PATH", ""),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		BackupDir:  getEnv("BACKUP_DIR", "./data/backups"),
		Currency:   strings.ToUpper(getEnv("CURRENCY", money.ARS)),
		LogLevel:   ParseLevel(os.Getenv("LOG_LEVEL")),
	}

	var errs []error
	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.SweepInterval, err = getDuration("SWEEP_INTERVAL", time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.BackupInterval, err = getDuration("BACKUP_INTERVAL", 2*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.BackupKeep, err = getInt("BACKUP_KEEP", 10); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that parsed but make no sense.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("DB_PATH must not be empty")
	}
	if c.BackupKeep < 1 {
		return fmt.Errorf("BACKUP_KEEP must be at least 1, got %d", c.BackupKeep)
	}
	if money.GetCurrency(c.Currency) == nil {
		return fmt.Errorf("CURRENCY %q is not a known ISO 4217 code", c.Currency)
	}
	if c.JWTSecret != "" && c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive when JWT_SECRET is set")
	}
	return nil
}

// AuthEnabled reports whether API calls require an operator token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}
