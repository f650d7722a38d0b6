package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	SetLockTimeout(ctx context.Context, timeout time.Duration) error
	LockDay(ctx context.Context, day time.Time) error
	ListActive(ctx context.Context, from, to time.Time) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	Upsert(ctx context.Context, client *domain.Client) (*domain.Client, error)
}

// BlockedTimeRepository интерфейс репозитория блокировок
type BlockedTimeRepository interface {
	ListInRange(ctx context.Context, from, to time.Time) ([]*domain.BlockedTime, error)
}

// SettingsProvider источник настроек расписания
type SettingsProvider interface {
	Get(ctx context.Context) (*domain.Settings, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics учет исходов допуска
type Metrics interface {
	ObserveAdmission(outcome string, duration time.Duration)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
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

type noopMetrics struct{}

func (noopMetrics) ObserveAdmission(string, time.Duration) {}
