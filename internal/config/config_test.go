package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.ServerPort)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("Expected default database type sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.RateLimitRequests != 60 {
		t.Errorf("Expected default rate limit 60, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("Expected default rate window 1m, got %s", cfg.RateLimitWindow)
	}
	if cfg.InviteRetention != 90*24*time.Hour {
		t.Errorf("Expected default invite retention 90 days, got %s", cfg.InviteRetention)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_URL", "postgres://localhost/cartshare")
	t.Setenv("RATE_LIMIT_REQUESTS", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("INVITE_RETENTION", "24h")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.ServerPort)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("Expected database type postgres, got %s", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != "postgres://localhost/cartshare" {
		t.Errorf("Unexpected database URL %s", cfg.DatabaseURL)
	}
	if cfg.RateLimitRequests != 10 {
		t.Errorf("Expected rate limit 10, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("Expected rate window 30s, got %s", cfg.RateLimitWindow)
	}
	if cfg.InviteRetention != 24*time.Hour {
		t.Errorf("Expected invite retention 24h, got %s", cfg.InviteRetention)
	}
}

func TestGetEnvIntMalformed(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "not-a-number")
	if got := getEnvInt("RATE_LIMIT_REQUESTS", 60); got != 60 {
		t.Errorf("Malformed value should fall back to the default, got %d", got)
	}
}
