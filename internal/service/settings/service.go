package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	settingsRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/settings"
	"github.com/m04kA/SMC-CoachBooking/internal/service/settings/models"
)

// Service источник настроек расписания с кэшированием
type Service struct {
	repo     SettingsRepository
	cache    Cache
	ttl      time.Duration
	location *time.Location
	logger   Logger
}

// NewService создает новый экземпляр сервиса настроек
// ttl <= 0 отключает кэш
func NewService(repo SettingsRepository, cache Cache, ttl time.Duration, location *time.Location, logger Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		ttl:      ttl,
		location: location,
		logger:   logger,
	}
}

// Get возвращает текущие настройки
// Ошибка кэша не мешает чтению: настройки берутся из репозитория.
func (s *Service) Get(ctx context.Context) (*domain.Settings, error) {
	if s.cacheEnabled() {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("Get: cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("Get: settings row is missing")
			return nil, ErrSettingsNotConfigured
		}
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, settings, s.ttl); err != nil {
			s.logger.Warn("Get: cache write failed: %v", err)
		}
	}

	return settings, nil
}

// GetSettings возвращает настройки для API
func (s *Service) GetSettings(ctx context.Context) (*models.SettingsResponse, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponse(settings), nil
}

// Update изменяет переданные поля настроек и сбрасывает кэш
// Если настроек еще нет, запрос должен содержать длительность сессии и рабочие часы.
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating settings")

	current, err := s.repo.Get(ctx)
	if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}
	if current == nil {
		current = &domain.Settings{}
	}

	next := *current
	if req.SessionDurationMinutes != nil {
		next.SessionDurationMinutes = *req.SessionDurationMinutes
	}
	if req.BufferTimeMinutes != nil {
		next.BufferTimeMinutes = *req.BufferTimeMinutes
	}
	if req.WorkingHours != nil {
		next.WorkingHours = *req.WorkingHours
	}
	if req.AdvanceBookingDays != nil {
		next.AdvanceBookingDays = *req.AdvanceBookingDays
	}

	if err := validateSettings(&next); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	saved, err := s.repo.Save(ctx, &next)
	if err != nil {
		s.logger.Error("Update: failed to save settings: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.refreshCache(ctx, saved)

	s.logger.Info("Update: settings saved (duration=%d, buffer=%d, advance=%d)",
		saved.SessionDurationMinutes, saved.BufferTimeMinutes, saved.AdvanceBookingDays)

	return s.toResponse(saved), nil
}

// refreshCache кладет в кэш сохраненную версию
// Чтение, начавшееся до сохранения, не сможет вернуть в кэш старые настройки: их UpdatedAt меньше.
func (s *Service) refreshCache(ctx context.Context, saved *domain.Settings) {
	if !s.cacheEnabled() {
		s.Invalidate(ctx)
		return
	}
	if err := s.cache.Set(ctx, saved, s.ttl); err != nil {
		s.logger.Warn("Update: cache write failed: %v", err)
		s.Invalidate(ctx)
	}
}

// Invalidate сбрасывает кэш настроек
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx); err != nil {
		s.logger.Warn("Invalidate: cache delete failed: %v", err)
	}
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

func (s *Service) toResponse(settings *domain.Settings) *models.SettingsResponse {
	hours := settings.WorkingHours
	if hours == nil {
		hours = domain.WorkingHours{}
	}
	return &models.SettingsResponse{
		SessionDurationMinutes: settings.SessionDurationMinutes,
		BufferTimeMinutes:      settings.BufferTimeMinutes,
		WorkingHours:           hours,
		AdvanceBookingDays:     settings.AdvanceBookingDays,
		Timezone:               s.location.String(),
		UpdatedAt:              settings.UpdatedAt,
	}
}

// validateSettings проверяет диапазоны значений и рабочие часы
func validateSettings(s *domain.Settings) error {
	if s.SessionDurationMinutes < domain.MinSessionDurationMinutes || s.SessionDurationMinutes > domain.MaxSessionDurationMinutes {
		return fmt.Errorf("%w: sessionDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSessionDurationMinutes, domain.MaxSessionDurationMinutes)
	}

	if s.BufferTimeMinutes < 0 || s.BufferTimeMinutes > domain.MaxBufferTimeMinutes {
		return fmt.Errorf("%w: bufferTimeMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxBufferTimeMinutes)
	}

	if s.AdvanceBookingDays < 0 || s.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between 0 and %d", ErrInvalidInput, domain.MaxAdvanceBookingDays)
	}

	if len(s.WorkingHours) == 0 {
		return fmt.Errorf("%w: workingHours are required", ErrInvalidInput)
	}

	if err := s.WorkingHours.Validate(); err != nil {
		return fmt.Errorf("%w: workingHours: %v", ErrInvalidInput, err)
	}

	return nil
}
