package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Deal       DealConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds badge reconciliation settings
type AttendanceConfig struct {
	DefaultTimezone string
	// MarkerAllowlist is a comma-separated list of event types and
	// security actions that count as entry markers.
	MarkerAllowlist   []string
	RebuildWindowDays int
}

// DealConfig holds flight deal scoring settings
type DealConfig struct {
	OvernightMinHours int
	RescoreStaleAfter string
}

func Load() (*Config, error) {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

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
		Name:     getEnv("DB_NAME", "insights"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance configuration
	rebuildWindowDays, err := strconv.Atoi(getEnv("ATTENDANCE_REBUILD_WINDOW_DAYS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_REBUILD_WINDOW_DAYS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		DefaultTimezone:   getEnv("ATTENDANCE_DEFAULT_TIMEZONE", "UTC"),
		MarkerAllowlist:   getEnvSlice("ATTENDANCE_MARKER_ALLOWLIST"),
		RebuildWindowDays: rebuildWindowDays,
	}

	// Deal configuration
	overnightMinHours, err := strconv.Atoi(getEnv("DEAL_OVERNIGHT_MIN_HOURS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEAL_OVERNIGHT_MIN_HOURS: %w", err)
	}

	config.Deal = DealConfig{
		OvernightMinHours: overnightMinHours,
		RescoreStaleAfter: getEnv("DEAL_RESCORE_STALE_AFTER", "24h"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.RebuildWindowDays < 1 {
		return fmt.Errorf("ATTENDANCE_REBUILD_WINDOW_DAYS must be at least 1")
	}
	if c.Deal.OvernightMinHours < 1 {
		return fmt.Errorf("DEAL_OVERNIGHT_MIN_HOURS must be at least 1")
	}
	return nil
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
