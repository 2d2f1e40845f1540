package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath    string
	MigrationsPath  string
	ServerAddr      string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:   getEnv("DATABASE_PATH", "bracket_engine.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT environment variable: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.ShutdownTimeout = timeout

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}
	return level, nil
}
