// Package config provides configuration for the engine.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the engine configuration. It is an explicit value passed to
// the engine at construction; nothing reads the environment after Load.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Agent gateway
	AgentURL     string
	AgentAPIKey  string
	AgentTimeout time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from the environment, with .env as a fallback
// source for local development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:     getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:  getEnv("DATABASE_URL", "file:procure.db?cache=shared&mode=rwc"),
		AgentURL:     getEnv("AGENT_URL", "http://localhost:8091"),
		AgentAPIKey:  getEnv("AGENT_API_KEY", ""),
		AgentTimeout: time.Duration(getEnvInt("AGENT_TIMEOUT_MS", 120000)) * time.Millisecond,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
