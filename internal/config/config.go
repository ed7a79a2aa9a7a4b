package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/fer-correa/OSPO-ColabAchievements/internal/errors"
)

// Config holds the application configuration
type Config struct {
	// GitHub
	GitHubToken string

	// Storage (record API server)
	StorageType string // "sqlite" or "postgres"
	SQLitePath  string
	PostgresURL string

	// API Server
	APIPort string
	APIHost string

	// Worker
	StoreEndpoint string
	TargetsPath   string
	HTTPTimeout   time.Duration
	Workers       int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		GitHubToken:   getEnv("GITHUB_TOKEN", ""),
		StorageType:   getEnv("STORAGE_TYPE", "sqlite"),
		SQLitePath:    getEnv("SQLITE_PATH", "./achievements.db"),
		PostgresURL:   getEnv("POSTGRES_URL", ""),
		APIPort:       getEnv("API_PORT", "8080"),
		APIHost:       getEnv("API_HOST", "localhost"),
		StoreEndpoint: getEnv("STORE_ENDPOINT", "http://localhost:8080"),
		TargetsPath:   getEnv("OSPO_CONFIG", "ospo_config.yml"),
		HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		Workers:       getEnvInt("WORKERS", 1),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

// ValidateWorker validates the configuration for an ingestion run.
// A missing token aborts before any processing begins.
func (c *Config) ValidateWorker() error {
	if c.GitHubToken == "" {
		return apperrors.NewConfigError("GITHUB_TOKEN: GitHub token is required")
	}
	if c.StoreEndpoint == "" {
		return apperrors.NewConfigError("STORE_ENDPOINT: record store endpoint is required")
	}
	if c.Workers < 1 {
		return apperrors.NewConfigError("WORKERS: must be at least 1")
	}
	return nil
}

// ValidateAPI validates the configuration for the record API server
func (c *Config) ValidateAPI() error {
	if c.StorageType != "sqlite" && c.StorageType != "postgres" {
		return apperrors.NewConfigError("STORAGE_TYPE: must be 'sqlite' or 'postgres'")
	}
	if c.StorageType == "postgres" && c.PostgresURL == "" {
		return apperrors.NewConfigError("POSTGRES_URL: PostgreSQL URL is required when STORAGE_TYPE is 'postgres'")
	}
	return nil
}
