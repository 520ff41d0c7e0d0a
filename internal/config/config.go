package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTokenURL  = "https://oauth.fatsecret.com/connect/token"
	defaultSearchURL = "https://platform.fatsecret.com/rest/server.api"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server    ServerConfig
	FatSecret FatSecretConfig
	CORS      CORSConfig
	LogLevel  string
	LogFormat string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// FatSecretConfig holds the upstream credentials and endpoints.
// Credentials are not validated here; a missing pair surfaces as an
// authorization failure on the first search.
type FatSecretConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	SearchURL    string
	Timeout      int // seconds, applied to each outbound call
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8888"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 30),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		FatSecret: FatSecretConfig{
			ClientID:     os.Getenv("FATSECRET_CLIENT_ID"),
			ClientSecret: os.Getenv("FATSECRET_CLIENT_SECRET"),
			TokenURL:     getEnv("FATSECRET_TOKEN_URL", defaultTokenURL),
			SearchURL:    getEnv("FATSECRET_SEARCH_URL", defaultSearchURL),
			Timeout:      getEnvAsInt("FATSECRET_TIMEOUT", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.FatSecret.TokenURL == "" || c.FatSecret.SearchURL == "" {
		return fmt.Errorf("FATSECRET_TOKEN_URL and FATSECRET_SEARCH_URL must not be empty")
	}

	if c.FatSecret.Timeout <= 0 {
		return fmt.Errorf("FATSECRET_TIMEOUT must be positive, got %d", c.FatSecret.Timeout)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.LogFormat)
	}

	return nil
}

// HasCredentials reports whether both FatSecret credentials are set.
func (c FatSecretConfig) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// RequestTimeout returns the per-call upstream timeout.
func (c FatSecretConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

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

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
