package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Identity attached to submissions (optional)
	UserID   string
	DeviceID string

	// Forecast source
	ForecastURL     string // empty: use the built-in slot catalogue
	ForecastTimeout time.Duration
	ForecastTTL     time.Duration

	// Trade submission sink
	SubmissionURL     string
	SubmissionTimeout time.Duration

	// Plan display
	PlanRefreshInterval time.Duration // cosmetic countdown shown next to the plan

	// Persistence
	StateDir string // local record store (one JSON blob per key)

	// Publish audit
	AuditMode    string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		UserID:   os.Getenv("TRADE_USER_ID"),
		DeviceID: os.Getenv("TRADE_DEVICE_ID"),

		// Forecast defaults
		ForecastURL:     os.Getenv("FORECAST_URL"),
		ForecastTimeout: getDurationOrDefault("FORECAST_TIMEOUT", 30*time.Second),
		ForecastTTL:     getDurationOrDefault("FORECAST_TTL", 30*time.Minute),

		// Submission defaults
		SubmissionURL:     getEnvOrDefault("SUBMISSION_URL", "http://localhost:8080/api/trades/accept"),
		SubmissionTimeout: getDurationOrDefault("SUBMISSION_TIMEOUT", 30*time.Second),

		PlanRefreshInterval: getDurationOrDefault("PLAN_REFRESH_INTERVAL", 6*time.Hour),

		// Persistence defaults
		StateDir: getEnvOrDefault("STATE_DIR", ".solar-trade"),

		// Audit defaults
		AuditMode:    getEnvOrDefault("AUDIT_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "solartrade"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "solartrade123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "solar_trade"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.SubmissionURL == "" {
		return fmt.Errorf("SUBMISSION_URL cannot be empty")
	}

	if c.StateDir == "" {
		return fmt.Errorf("STATE_DIR cannot be empty")
	}

	if c.ForecastTTL <= 0 {
		return fmt.Errorf("FORECAST_TTL must be positive, got %s", c.ForecastTTL)
	}

	if c.AuditMode != "console" && c.AuditMode != "postgres" {
		return fmt.Errorf("AUDIT_MODE must be 'console' or 'postgres', got %q", c.AuditMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
