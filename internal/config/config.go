package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Seed     SeedConfig
	Cron     CronConfig
	Limits   RateLimitConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver string
	URL    string
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// SeedConfig holds the optional bootstrap admin
type SeedConfig struct {
	AdminName     string
	AdminPhone    string
	AdminPassword string
}

// CronConfig holds the stale-session report schedule
type CronConfig struct {
	StaleSessionSpec string
	StaleAfter       time.Duration
}

// RateLimitConfig holds per-IP request budgets, per minute
type RateLimitConfig struct {
	General int
	Login   int
}

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// tokenTTL is the fixed token validity window
const tokenTTL = 24 * time.Hour

var (
	ErrJWTSecretRequired   = errors.New("JWT_SECRET is required")
	ErrDatabaseURLRequired = errors.New("DATABASE_URL is required")
)

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s]", cfg.AppMode, cfg.Database.Driver)
	return cfg, nil
}

// FromEnv builds and validates the configuration from environment variables only
func FromEnv() (*Config, error) {
	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", DriverMySQL)))
	if driver != DriverMySQL && driver != DriverPostgres {
		return nil, fmt.Errorf("invalid DB_DRIVER: '%s' (must be '%s' or '%s')", driver, DriverMySQL, DriverPostgres)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		return nil, ErrDatabaseURLRequired
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrJWTSecretRequired
	}

	staleHours, err := strconv.Atoi(getEnv("STALE_SESSION_HOURS", "16"))
	if err != nil {
		return nil, fmt.Errorf("invalid STALE_SESSION_HOURS: %w", err)
	}

	general, err := positiveInt("RATE_LIMIT_MAX", "100")
	if err != nil {
		return nil, err
	}
	login, err := positiveInt("LOGIN_RATE_LIMIT_MAX", "5")
	if err != nil {
		return nil, err
	}

	return &Config{
		AppMode: appMode,
		Port:    getEnv("PORT", "5000"),
		Database: DatabaseConfig{
			Driver: driver,
			URL:    dbURL,
		},
		JWT: JWTConfig{
			Secret: secret,
			TTL:    tokenTTL,
		},
		Seed: SeedConfig{
			AdminName:     getEnv("SEED_ADMIN_NAME", "Administrator"),
			AdminPhone:    strings.TrimSpace(os.Getenv("SEED_ADMIN_PHONE")),
			AdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
		},
		Cron: CronConfig{
			StaleSessionSpec: getEnv("STALE_SESSION_CRON", "0 * * * *"),
			StaleAfter:       time.Duration(staleHours) * time.Hour,
		},
		Limits: RateLimitConfig{
			General: general,
			Login:   login,
		},
	}, nil
}

// positiveInt reads a request budget; zero would lock every client out
func positiveInt(key, defaultValue string) (int, error) {
	n, err := strconv.Atoi(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid %s: must be at least 1", key)
	}
	return n, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return origins
}
