// internal/config/config.go
// Configuration management using environment variables and optional config files

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Server      ServerConfig
	Repository  RepositoryConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Features    FeatureFlags
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	FrontendURL  string
}

// RepositoryConfig locates the JSON-file tournament store.
type RepositoryConfig struct {
	DataDir       string
	DefaultRounds int
}

// RedisConfig backs the Progress Inspector / Aggregated Stats cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig contains authentication settings for the optional HTTP
// surface's operator bearer auth. There is exactly one operator
// credential, configured via environment — the engine has no concept
// of per-tournament or per-player ownership to authorize against.
type AuthConfig struct {
	JWTSecret            string
	JWTExpiration        time.Duration
	BCryptCost           int
	OperatorUsername     string
	OperatorPasswordHash string
}

// FeatureFlags allows toggling optional subsystems without code changes.
type FeatureFlags struct {
	EnableWebSocket bool
	MaintenanceMode bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		// It's okay if .env doesn't exist in production
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnvOrDefault("PORT", "8080"),
			ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			FrontendURL:  getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		},
		Repository: RepositoryConfig{
			DataDir:       getEnvOrDefault("TOURNAMENT_DATA_DIR", "data/tournaments"),
			DefaultRounds: getIntOrDefault("TOURNAMENT_DEFAULT_ROUNDS", 4),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:            getEnvOrDefault("JWT_SECRET", ""),
			JWTExpiration:        getDurationOrDefault("JWT_EXPIRATION", 15*time.Minute),
			BCryptCost:           getIntOrDefault("BCRYPT_COST", 10),
			OperatorUsername:     getEnvOrDefault("OPERATOR_USERNAME", "organizer"),
			OperatorPasswordHash: getEnvOrDefault("OPERATOR_PASSWORD_HASH", ""),
		},
		Features: FeatureFlags{
			EnableWebSocket: getBoolOrDefault("ENABLE_WEBSOCKET", true),
			MaintenanceMode: getBoolOrDefault("MAINTENANCE_MODE", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" && c.Environment == "production" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.Auth.OperatorPasswordHash == "" && c.Environment == "production" {
		return fmt.Errorf("OPERATOR_PASSWORD_HASH is required in production")
	}
	if c.Repository.DataDir == "" {
		return fmt.Errorf("TOURNAMENT_DATA_DIR is required")
	}
	return nil
}

// Helper functions to read environment variables with defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
