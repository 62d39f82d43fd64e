package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Remote   RemoteConfig
	Auth     AuthConfig
	NewRelic NewRelicConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisConfig holds Redis configuration for the session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RemoteConfig holds the pool API collaborator's endpoint configuration.
type RemoteConfig struct {
	BaseURL      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuthConfig holds login policy configuration.
type AuthConfig struct {
	// AllowedEmailDomain restricts Google sign-in to one institutional
	// domain. Empty disables the check.
	AllowedEmailDomain string
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Remote: RemoteConfig{
			BaseURL:      getEnv("POOL_API_BASE_URL", "http://127.0.0.1:8000"),
			ReadTimeout:  getDurationEnv("POOL_API_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDurationEnv("POOL_API_WRITE_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			AllowedEmailDomain: getEnv("AUTH_ALLOWED_EMAIL_DOMAIN", ""),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "carpool-gateway"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
