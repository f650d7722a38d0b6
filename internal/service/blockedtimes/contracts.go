package blockedtimes

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// BlockedTimeRepository интерфейс репозитория блокировок
type BlockedTimeRepository interface {
	Create(ctx context.Context, blocked *domain.BlockedTime) (*domain.BlockedTime, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]*domain.BlockedTime, error)
	ListFrom(ctx context.Context, from time.Time) ([]*domain.BlockedTime, error)
	Delete(ctx context.Context, id int64) error
}

// DayLocker блокировки календарных дней, общие с допуском бронирований
type DayLocker interface {
	SetLockTimeout(ctx context.Context, timeout time.Duration) error
	LockDay(ctx context.Context, day time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
