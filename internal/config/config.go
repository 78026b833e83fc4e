package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from the environment.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// JWT Config
	JWTSecret string        `env:"JWT_SECRET"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"climatic-risks"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// Cache Config
	RiskCacheTTL time.Duration `env:"RISK_CACHE_TTL" envDefault:"5m"`

	// Reports Config
	ReportCronSpec string `env:"REPORT_CRON_SPEC" envDefault:"0 3 1 * *"`
}

// LoadConfig loads configuration from environment variables and an optional
// .env file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTIssuer:      getEnv("JWT_ISSUER", "climatic-risks"),
		JWTTTL:         getEnvAsDuration("JWT_TTL", 24*time.Hour),
		RiskCacheTTL:   getEnvAsDuration("RISK_CACHE_TTL", 5*time.Minute),
		ReportCronSpec: getEnv("REPORT_CRON_SPEC", "0 3 1 * *"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns an environment variable as int or a default.
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration returns an environment variable as time.Duration or a default.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
