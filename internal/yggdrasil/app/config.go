package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer  string // Issuer claim stamped into access tokens
	KeysDir string // Directory holding the service key PEM files

	DatabaseFile string // Path to the SQLite database file
	PepperFile   string // Path to the password pepper file
	RedisURL     string // Optional: Redis for the join broker; sqlite fallback when empty

	Env       string // Environment (dev, staging, prod)
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
	Port      int    // HTTP listen port

	AccessTokenTTL       time.Duration // Session access token lifetime
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout
	HousekeepingInterval time.Duration // Background sweep interval
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:               getEnvOrDefault("YGG_ISSUER", "yggdrasil"),
		KeysDir:              getEnvOrDefault("YGG_KEYS_DIR", "keys"),
		DatabaseFile:         getEnvOrDefault("YGG_DATABASE_FILE", "yggdrasil.db"),
		PepperFile:           getEnvOrDefault("YGG_PEPPER_FILE", "pepper"),
		RedisURL:             os.Getenv("YGG_REDIS_URL"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		AccessTokenTTL:       getEnvDurationOrDefault("YGG_ACCESS_TOKEN_TTL", 24*time.Hour),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
