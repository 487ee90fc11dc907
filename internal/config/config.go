package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// Timezone is the IANA zone the week grid is anchored to. Week starts are
	// Monday 00:00 in this zone.
	Timezone *time.Location

	// HorizonWeeks is how many weeks ahead the instantiation engine keeps
	// materialized, counting the current week.
	HorizonWeeks int

	// ReconcileCron is the cron expression for the weekly reconciliation job.
	ReconcileCron string

	// SMTP settings for the notifier. Empty SMTPAddr disables email sending.
	SMTPAddr string
	SMTPFrom string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	ttlStr := getEnv("JWT_ACCESS_TOKEN_TTL", "15m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	// Bcrypt cost for password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	// Week grid timezone (default: UTC)
	tzStr := getEnv("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzStr, err)
	}
	cfg.Timezone = loc

	// Scheduling horizon in weeks (default: 5, minimum: 1)
	cfg.HorizonWeeks, err = getEnvAsInt("HORIZON_WEEKS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid HORIZON_WEEKS: %w", err)
	}
	if cfg.HorizonWeeks < 1 {
		return nil, fmt.Errorf("HORIZON_WEEKS must be at least 1")
	}

	// Reconciliation schedule (default: Sunday 22:30)
	cfg.ReconcileCron = getEnv("RECONCILE_CRON", "30 22 * * 0")

	// Notifier settings (optional)
	cfg.SMTPAddr = getEnv("SMTP_ADDR", "")
	cfg.SMTPFrom = getEnv("SMTP_FROM", "noreply@localhost")

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}
