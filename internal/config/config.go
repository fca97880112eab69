package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Shift     ShiftConfig
	Reconcile ReconcileConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds the secret used to verify tokens issued by the auth service
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	StoreDriver    string
	AllowedOrigins []string
}

// ShiftConfig is the schedule given to employees without one of their own
type ShiftConfig struct {
	DefaultStart    string
	DefaultEnd      string
	RegularCapHours float64
}

type ReconcileConfig struct {
	Enabled      bool
	Interval     time.Duration
	LookbackDays int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-timesheet"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		StoreDriver:    getEnv("STORE_DRIVER", "postgres"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Shift defaults
	regularCap, err := strconv.ParseFloat(getEnv("SHIFT_REGULAR_CAP_HOURS", "9"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SHIFT_REGULAR_CAP_HOURS: %w", err)
	}

	config.Shift = ShiftConfig{
		DefaultStart:    getEnv("SHIFT_DEFAULT_START", "09:00"),
		DefaultEnd:      getEnv("SHIFT_DEFAULT_END", "18:00"),
		RegularCapHours: regularCap,
	}

	// Aggregation reconcile job
	reconcileInterval, err := time.ParseDuration(getEnv("RECONCILE_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_INTERVAL: %w", err)
	}
	lookback, err := strconv.Atoi(getEnv("RECONCILE_LOOKBACK_DAYS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_LOOKBACK_DAYS: %w", err)
	}

	config.Reconcile = ReconcileConfig{
		Enabled:      getEnv("RECONCILE_ENABLED", "true") == "true",
		Interval:     reconcileInterval,
		LookbackDays: lookback,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.StoreDriver != "postgres" && c.App.StoreDriver != "memory" {
		return fmt.Errorf("STORE_DRIVER must be one of: postgres, memory")
	}
	if c.App.StoreDriver == "postgres" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Shift.RegularCapHours <= 0 {
		return fmt.Errorf("SHIFT_REGULAR_CAP_HOURS must be positive")
	}
	if c.Reconcile.Interval <= 0 {
		return fmt.Errorf("RECONCILE_INTERVAL must be positive")
	}
	if c.Reconcile.LookbackDays < 1 {
		return fmt.Errorf("RECONCILE_LOOKBACK_DAYS must be at least 1")
	}
	return nil
}

// Location returns the organization time zone used to derive calendar dates
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// LogLevel maps LOG_LEVEL to a slog level
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
