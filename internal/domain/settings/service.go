package settings

import "context"

type SettingsService interface {
	// Current returns the effective settings, seeding defaults on first use
	Current(ctx context.Context) (Settings, error)

	GetSettings(ctx context.Context) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
}
