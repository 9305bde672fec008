package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the startup snapshot of every tunable the server reads.
// Loaded once in main and passed down; nothing re-reads the environment
// after that.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	GeminiAPIKey string
	GeminiModel  string

	SessionTTL time.Duration
	Production bool
}

func Load() *Config {
	// Missing .env is fine: containers inject plain env vars.
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		SessionTTL:   getEnvDuration("SESSION_TTL", 24*time.Hour),
		Production:   os.Getenv("GO_ENV") == "production",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Bare number means hours
	if h, err := strconv.Atoi(v); err == nil && h > 0 {
		return time.Duration(h) * time.Hour
	}
	return fallback
}
