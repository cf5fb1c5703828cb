/*
Package config loads runtime configuration from the environment.

PURPOSE:
  One place that knows every environment variable the server reads. A
  .env file in the working directory is loaded first when present, so
  local development needs no exported variables.

VARIABLES:
  PORT             HTTP listen port (default 8080)
  DB_PATH          SQLite database path (default ./data/adherence.db)
  ALLOWED_ORIGINS  Comma-separated CORS origins (default *)
  LOG_LEVEL        zerolog level: debug, info, warn, error (default info)
  SEED_DAYS        Trailing days regenerated on demand (default 30)
*/
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBPath         string
	AllowedOrigins []string
	LogLevel       string
	SeedDays       int
}

// Load reads configuration from the environment, after loading an
// optional .env file. Missing variables fall back to defaults.
func Load() *Config {
	// Absence of a .env file is the normal case outside development.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBPath:         getEnv("DB_PATH", "./data/adherence.db"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		SeedDays:       getEnvInt("SEED_DAYS", 30),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
