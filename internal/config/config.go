package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// DatabaseType selects the dialect: sqlite (default), postgres, mysql.
	// Postgres and MySQL read DatabaseURL; SQLite reads DatabasePath. MySQL
	// URLs need multiStatements=true for the migration runner.
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	LogLevel  string
	LogFormat string

	// Rate limit applied to mutating API requests, per actor.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Resolved (accepted/declined/cancelled) invites older than this are
	// pruned by the background sweeper. Zero disables pruning.
	InviteRetention time.Duration
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:        getEnv("PORT", "8080"),
		DatabaseType:      getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:       getEnv("DB_URL", ""),
		DatabasePath:      getEnv("DB_PATH", "./cartshare.db"),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "./migrations"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		InviteRetention:   getEnvDuration("INVITE_RETENTION", 90*24*time.Hour),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration reads a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
