package config

import (
	"os"
	"strconv"

	"insightengine/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AI       AIConfig
	Upload   UploadConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds database connection settings. The URL is optional:
// without it the service runs with analysis history disabled.
type DatabaseConfig struct {
	URL string
}

// AIConfig holds optional LLM narrative settings. Without an API key the
// service falls back to templated insight text.
type AIConfig struct {
	OpenAIKey   string
	Model       string
	MaxTokens   int
	Temperature float64
}

// UploadConfig holds file upload limits and storage paths
type UploadConfig struct {
	MaxFileSizeMB int
	StoragePath   string
	SampleRows    int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		AI: AIConfig{
			OpenAIKey:   getEnvOrDefault("OPENAI_API_KEY", ""),
			Model:       getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
			MaxTokens:   getEnvIntOrDefault("MAX_TOKENS", 1000),
			Temperature: getEnvFloatOrDefault("TEMPERATURE", 0.7),
		},
		Upload: UploadConfig{
			MaxFileSizeMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
			StoragePath:   getEnvOrDefault("UPLOAD_DIR", "./uploads"),
			SampleRows:    getEnvIntOrDefault("SAMPLE_ROWS", 100),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Upload.MaxFileSizeMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Upload.SampleRows < 0 {
		return errors.ConfigInvalid("SAMPLE_ROWS must not be negative")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
