package memory

import (
	"context"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/settings"
)

// SettingsRepository настройки в памяти
type SettingsRepository struct {
	store *Store
}

// Get читает настройки
func (r *SettingsRepository) Get(_ context.Context) (*domain.Settings, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if r.store.settings == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	copied := *r.store.settings
	return &copied, nil
}

// Save создает или перезаписывает настройки
func (r *SettingsRepository) Save(ctx context.Context, s *domain.Settings) (*domain.Settings, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	prev := r.store.settings
	saved := *s
	saved.UpdatedAt = r.store.now()
	r.store.settings = &saved
	record(ctx, func() { r.store.settings = prev })

	out := saved
	return &out, nil
}
