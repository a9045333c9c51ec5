package memory

import (
	"context"

	"github.com/cmlabs-hris/timeclock/internal/domain/settings"
)

type settingsRepository struct {
	store *Store
}

func NewSettingsRepository(store *Store) settings.SettingsRepository {
	return &settingsRepository{store: store}
}

func (r *settingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if r.store.settings == nil {
		return settings.Settings{}, settings.ErrSettingsNotFound
	}
	return *r.store.settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s.UpdatedAt = r.store.now()
	r.store.settings = &s
	return s, nil
}
