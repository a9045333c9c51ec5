package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock/internal/domain/settings"
	"github.com/cmlabs-hris/timeclock/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get implements settings.SettingsRepository.
func (s *settingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT cooldown_seconds, standard_shift_hours, entry_tolerance_minutes, timezone, updated_at
		FROM settings
		WHERE id = 1
	`

	var st settings.Settings
	err := q.QueryRow(ctx, query).Scan(
		&st.CooldownSeconds, &st.StandardShiftHours, &st.EntryToleranceMinutes, &st.Timezone, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Settings{}, settings.ErrSettingsNotFound
		}
		return settings.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return st, nil
}

// Upsert implements settings.SettingsRepository.
func (s *settingsRepository) Upsert(ctx context.Context, st settings.Settings) (settings.Settings, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO settings (id, cooldown_seconds, standard_shift_hours, entry_tolerance_minutes, timezone, updated_at)
		VALUES (1, $1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE SET
			cooldown_seconds = EXCLUDED.cooldown_seconds,
			standard_shift_hours = EXCLUDED.standard_shift_hours,
			entry_tolerance_minutes = EXCLUDED.entry_tolerance_minutes,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
		RETURNING updated_at
	`

	if err := q.QueryRow(ctx, query,
		st.CooldownSeconds, st.StandardShiftHours, st.EntryToleranceMinutes, st.Timezone,
	).Scan(&st.UpdatedAt); err != nil {
		return settings.Settings{}, fmt.Errorf("failed to upsert settings: %w", err)
	}
	return st, nil
}
