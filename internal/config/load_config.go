package config

import (
	"os"
	"strconv"
	"time"

	"avara-relay/internal/llm"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is built once at startup and never mutated.
type Config struct {
	Port            string
	GLMAPIKey       string
	GLMBaseURL      string
	Model           string
	UpstreamTimeout time.Duration
	RedisAddr       string
	RedisPassword   string
	TokenCacheSize  int
	LogLevel        string
}

// ------------------------------------------------------------------------------------------------------
// Load reads configuration from the environment, after an optional .env file.
// A missing GLM_API_KEY is not an error: requests then fail upstream with 401.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Port:            getEnv("PORT", "8000"),
		GLMAPIKey:       getEnv("GLM_API_KEY", ""),
		GLMBaseURL:      getEnv("GLM_BASE_URL", llm.DefaultBaseURL),
		Model:           getEnv("GLM_MODEL", llm.DefaultModel),
		UpstreamTimeout: llm.DefaultTimeout,
		RedisAddr:       lookupEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		TokenCacheSize:  getEnvAsInt("TOKEN_CACHE_SIZE", 1024),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// ------------------------------------------------------------------------------------------------------
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ------------------------------------------------------------------------------------------------------
// lookupEnv differs from getEnv in that an explicitly empty value is kept
func lookupEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

// ------------------------------------------------------------------------------------------------------
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
