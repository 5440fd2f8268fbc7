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
	App       AppConfig
	Stats     StatsConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Dashboard DashboardConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// StatsConfig describes the statistics endpoint the dashboard polls
type StatsConfig struct {
	Endpoint     string
	PollInterval time.Duration
	Timeout      time.Duration
	// APIEnabled mounts the Postgres backed /api/dashboard-stats in this process
	APIEnabled bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds the secret shared by the dashboard and the stats API
type JWTConfig struct {
	Secret            string
	ServiceExpiration string
}

type DashboardConfig struct {
	SidebarBreakpoint int
	SessionTTL        time.Duration
}

func Load() (*Config, error) {
	// .env is optional; the process environment always wins
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Could not load .env file", "error", err)
	}

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5000"),
	}

	pollInterval, err := time.ParseDuration(getEnv("STATS_POLL_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_POLL_INTERVAL: %w", err)
	}
	timeout, err := time.ParseDuration(getEnv("STATS_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_TIMEOUT: %w", err)
	}

	config.Stats = StatsConfig{
		Endpoint:     getEnv("STATS_ENDPOINT", fmt.Sprintf("http://localhost:%d/api/dashboard-stats", appPort)),
		PollInterval: pollInterval,
		Timeout:      timeout,
		APIEnabled:   getEnvBool("STATS_API_ENABLED", false),
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "facturaflow"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		ServiceExpiration: getEnv("JWT_SERVICE_EXPIRATION", "5m"),
	}

	breakpoint, err := strconv.Atoi(getEnv("SIDEBAR_BREAKPOINT", "768"))
	if err != nil {
		return nil, fmt.Errorf("invalid SIDEBAR_BREAKPOINT: %w", err)
	}
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	config.Dashboard = DashboardConfig{
		SidebarBreakpoint: breakpoint,
		SessionTTL:        sessionTTL,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.ServiceExpiration); err != nil {
		return fmt.Errorf("invalid JWT_SERVICE_EXPIRATION: %w", err)
	}
	if c.Stats.Endpoint == "" {
		return fmt.Errorf("STATS_ENDPOINT is required")
	}
	if c.Stats.PollInterval <= 0 {
		return fmt.Errorf("STATS_POLL_INTERVAL must be positive")
	}
	if c.Stats.APIEnabled && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required when STATS_API_ENABLED is set")
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

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
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

func getEnvBool(key string, fallback bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
