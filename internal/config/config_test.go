package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "memory")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "UTC", cfg.App.Timezone)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, 60, cfg.Attendance.CooldownSeconds)
	assert.Equal(t, 8.0, cfg.Attendance.StandardShiftHours)
	assert.Equal(t, 10, cfg.Attendance.EntryToleranceMinutes)
	assert.Equal(t, 100*time.Millisecond, cfg.Scanner.InterCharThreshold)
	assert.Equal(t, 500*time.Millisecond, cfg.Scanner.InactivityWindow)
	assert.Equal(t, 3, cfg.Scanner.MinLength)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ATTENDANCE_COOLDOWN_SECONDS", "120")
	t.Setenv("STANDARD_SHIFT_HOURS", "7.5")
	t.Setenv("SCANNER_INTER_CHAR_MS", "50")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Attendance.CooldownSeconds)
	assert.Equal(t, 7.5, cfg.Attendance.StandardShiftHours)
	assert.Equal(t, 50*time.Millisecond, cfg.Scanner.InterCharThreshold)
	assert.Equal(t, "Asia/Jakarta", cfg.App.Timezone)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"ATTENDANCE_COOLDOWN_SECONDS": "soon",
		"STANDARD_SHIFT_HOURS":        "eight",
		"SCANNER_INACTIVITY_MS":       "0",
		"APP_PORT":                    "http",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_PostgresRequiresPassword(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_TYPE", "postgres")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")
}

func TestValidate_UnknownStorage(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_TYPE", "minio")

	_, err := Load()
	assert.ErrorContains(t, err, "STORAGE_TYPE")
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Name: "timeclock", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://u:p@db:5433/timeclock?sslmode=disable", cfg.DatabaseURL())
}

func TestSlogLevel(t *testing.T) {
	cfg := &Config{}
	cfg.App.LogLevel = "DEBUG"
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	cfg.App.LogLevel = "nonsense"
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
