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
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Admin      AdminConfig
	Storage    StorageConfig
	Attendance AttendanceConfig
	Scanner    ScannerConfig
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
	Port        int
	Env         string
	LogLevel    string
	Timezone    string
	FrontendURL string
}

// AdminConfig holds the single kiosk administrator credential.
// PasswordHash is a bcrypt hash, never the plain password.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

type StorageConfig struct {
	Type string // postgres, memory
}

// AttendanceConfig holds the defaults used to seed system settings.
type AttendanceConfig struct {
	CooldownSeconds       int
	StandardShiftHours    float64
	EntryToleranceMinutes int
}

type ScannerConfig struct {
	InterCharThreshold time.Duration
	InactivityWindow   time.Duration
	MinLength          int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment", "error", err)
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
		Name:     getEnv("DB_NAME", "timeclock"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	config.Admin = AdminConfig{
		Username:     getEnv("ADMIN_USERNAME", "admin"),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	config.Storage = StorageConfig{
		Type: strings.ToLower(getEnv("STORAGE_TYPE", "postgres")),
	}

	// Attendance defaults
	cooldown, err := strconv.Atoi(getEnv("ATTENDANCE_COOLDOWN_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_COOLDOWN_SECONDS: %w", err)
	}
	shiftHours, err := strconv.ParseFloat(getEnv("STANDARD_SHIFT_HOURS", "8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid STANDARD_SHIFT_HOURS: %w", err)
	}
	tolerance, err := strconv.Atoi(getEnv("ENTRY_TOLERANCE_MINUTES", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENTRY_TOLERANCE_MINUTES: %w", err)
	}

	config.Attendance = AttendanceConfig{
		CooldownSeconds:       cooldown,
		StandardShiftHours:    shiftHours,
		EntryToleranceMinutes: tolerance,
	}

	// Scanner configuration
	interChar, err := getEnvMillis("SCANNER_INTER_CHAR_MS", 100)
	if err != nil {
		return nil, err
	}
	inactivity, err := getEnvMillis("SCANNER_INACTIVITY_MS", 500)
	if err != nil {
		return nil, err
	}
	minLength, err := strconv.Atoi(getEnv("SCANNER_MIN_LENGTH", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCANNER_MIN_LENGTH: %w", err)
	}

	config.Scanner = ScannerConfig{
		InterCharThreshold: interChar,
		InactivityWindow:   inactivity,
		MinLength:          minLength,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE %q", c.Storage.Type)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Admin.PasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Attendance.CooldownSeconds < 0 {
		return fmt.Errorf("ATTENDANCE_COOLDOWN_SECONDS must not be negative")
	}
	if c.Attendance.StandardShiftHours <= 0 {
		return fmt.Errorf("STANDARD_SHIFT_HOURS must be positive")
	}
	if c.Scanner.MinLength < 1 {
		return fmt.Errorf("SCANNER_MIN_LENGTH must be at least 1")
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

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
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

func getEnvMillis(key string, fallback int) (time.Duration, error) {
	ms, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if ms <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
