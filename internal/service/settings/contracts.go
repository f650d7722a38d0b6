package settings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, s *domain.Settings) (*domain.Settings, error)
}

// Cache интерфейс кэша настроек (в памяти или Redis)
// Set не должен заменять запись с более поздним UpdatedAt.
type Cache interface {
	Get(ctx context.Context) (*domain.Settings, bool, error)
	Set(ctx context.Context, s *domain.Settings, ttl time.Duration) error
	Delete(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
