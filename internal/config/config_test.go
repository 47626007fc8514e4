package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_PATH", "LISTEN_ADDR", "JWT_SECRET", "TOKEN_TTL", "SWEEP_INTERVAL",
		"BACKUP_DIR", "BACKUP_INTERVAL", "BACKUP_KEEP", "CURRENCY", "LOG_LEVEL", "STATIC_PATH"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./data/horses.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, 2*time.Hour, cfg.BackupInterval)
	assert.Equal(t, 10, cfg.BackupKeep)
	assert.Equal(t, "ARS", cfg.Currency)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("SWEEP_INTERVAL", "0s")
	t.Setenv("BACKUP_KEEP", "3")
	t.Setenv("CURRENCY", "usd")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Zero(t, cfg.SweepInterval)
	assert.Equal(t, 3, cfg.BackupKeep)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "SWEEP_INTERVAL", "soon"},
		{"negative duration", "BACKUP_INTERVAL", "-1h"},
		{"bad keep", "BACKUP_KEEP", "ten"},
		{"zero keep", "BACKUP_KEEP", "0"},
		{"unknown currency", "CURRENCY", "XXQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
