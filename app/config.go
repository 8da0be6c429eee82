package app

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	ServerPort       string
	JWTSecret        string
	JWTExpirationSec int64
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSSLMode        string

	PollIntervalSec    int
	FetchTimeoutSec    int
	MaxInflightFetches int
	StatRetentionDays  int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8001"),
		JWTSecret:        getEnv("JWT_SIGNING_SECRET", "change-me-in-production"),
		JWTExpirationSec: 86400, // 24 hours
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "fleetmon"),
		DBSSLMode:        getEnv("DB_SSL_MODE", "disable"),

		PollIntervalSec:    getEnvInt("POLL_INTERVAL_SEC", 30),
		FetchTimeoutSec:    getEnvInt("FETCH_TIMEOUT_SEC", 10),
		MaxInflightFetches: getEnvInt("MAX_INFLIGHT_FETCHES", 32),
		StatRetentionDays:  getEnvInt("STAT_RETENTION_DAYS", 7),
	}

	if cfg.JWTSecret == "change-me-in-production" {
		return nil, fmt.Errorf("JWT_SIGNING_SECRET must be set")
	}
	if cfg.PollIntervalSec < 1 {
		return nil, fmt.Errorf("POLL_INTERVAL_SEC must be positive")
	}
	if cfg.FetchTimeoutSec < 1 {
		return nil, fmt.Errorf("FETCH_TIMEOUT_SEC must be positive")
	}

	return cfg, nil
}

// ConnString builds the Postgres connection string
func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}
