package config_test

import (
	"testing"
	"time"

	"github.com/iho/rentledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.DatabaseMaxConns != 25 {
		t.Errorf("DatabaseMaxConns = %d, want 25", cfg.DatabaseMaxConns)
	}
	if cfg.DatabaseMinConns != 5 {
		t.Errorf("DatabaseMinConns = %d, want 5", cfg.DatabaseMinConns)
	}
	if cfg.MigrationsPath != "migrations" {
		t.Errorf("MigrationsPath = %q, want migrations", cfg.MigrationsPath)
	}
	if cfg.AutoMigrate {
		t.Error("AutoMigrate should default to false")
	}
	if cfg.HTTPShutdownTimeout != 10*time.Second {
		t.Errorf("HTTPShutdownTimeout = %v, want 10s", cfg.HTTPShutdownTimeout)
	}
	if cfg.RateLimitPerSecond != 50 {
		t.Errorf("RateLimitPerSecond = %v, want 50", cfg.RateLimitPerSecond)
	}
	if cfg.RateLimitBurst != 100 {
		t.Errorf("RateLimitBurst = %d, want 100", cfg.RateLimitBurst)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Errorf("IdempotencyTTL = %v, want 24h", cfg.IdempotencyTTL)
	}
	if cfg.OutboxBatchSize != 100 {
		t.Errorf("OutboxBatchSize = %d, want 100", cfg.OutboxBatchSize)
	}
	if cfg.OutboxInterval != 5*time.Second {
		t.Errorf("OutboxInterval = %v, want 5s", cfg.OutboxInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/escrow")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("RATE_LIMIT_PER_SECOND", "5.5")
	t.Setenv("OUTBOX_INTERVAL", "250ms")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DatabaseURL != "postgres://u:p@db:5432/escrow" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if !cfg.AutoMigrate {
		t.Error("AutoMigrate should be true")
	}
	if cfg.RateLimitPerSecond != 5.5 {
		t.Errorf("RateLimitPerSecond = %v, want 5.5", cfg.RateLimitPerSecond)
	}
	if cfg.OutboxInterval != 250*time.Millisecond {
		t.Errorf("OutboxInterval = %v, want 250ms", cfg.OutboxInterval)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("LogFormat = %q, want console", cfg.LogFormat)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
