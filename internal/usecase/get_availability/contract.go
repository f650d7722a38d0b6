package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListActive(ctx context.Context, from, to time.Time) ([]*domain.Booking, error)
}

// BlockedTimeRepository интерфейс репозитория блокировок
type BlockedTimeRepository interface {
	ListInRange(ctx context.Context, from, to time.Time) ([]*domain.BlockedTime, error)
}

// SettingsProvider источник настроек расписания
type SettingsProvider interface {
	Get(ctx context.Context) (*domain.Settings, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
