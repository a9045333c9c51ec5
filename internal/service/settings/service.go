package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timeclock/internal/domain/settings"
)

type SettingsServiceImpl struct {
	settingsRepo settings.SettingsRepository
	defaults     settings.Settings
}

// NewSettingsService seeds the store with defaults the first time settings
// are read.
func NewSettingsService(settingsRepo settings.SettingsRepository, defaults settings.Settings) settings.SettingsService {
	return &SettingsServiceImpl{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// Current implements settings.SettingsService.
func (s *SettingsServiceImpl) Current(ctx context.Context) (settings.Settings, error) {
	current, err := s.settingsRepo.Get(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, settings.ErrSettingsNotFound) {
		return settings.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	seeded, err := s.settingsRepo.Upsert(ctx, s.defaults)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to seed default settings: %w", err)
	}
	slog.Info("Seeded default settings",
		"cooldown_seconds", seeded.CooldownSeconds,
		"standard_shift_hours", seeded.StandardShiftHours,
		"timezone", seeded.Timezone)
	return seeded, nil
}

// GetSettings implements settings.SettingsService.
func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (settings.SettingsResponse, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	return settings.ToResponse(current), nil
}

// UpdateSettings implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	current, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	if req.CooldownSeconds != nil {
		current.CooldownSeconds = *req.CooldownSeconds
	}
	if req.StandardShiftHours != nil {
		current.StandardShiftHours = *req.StandardShiftHours
	}
	if req.EntryToleranceMinutes != nil {
		current.EntryToleranceMinutes = *req.EntryToleranceMinutes
	}
	if req.Timezone != nil {
		current.Timezone = *req.Timezone
	}

	updated, err := s.settingsRepo.Upsert(ctx, current)
	if err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to update settings: %w", err)
	}

	slog.Info("Settings updated",
		"cooldown_seconds", updated.CooldownSeconds,
		"standard_shift_hours", updated.StandardShiftHours,
		"entry_tolerance_minutes", updated.EntryToleranceMinutes,
		"timezone", updated.Timezone)

	return settings.ToResponse(updated), nil
}
