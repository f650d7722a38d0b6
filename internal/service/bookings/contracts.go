package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetWithClient(ctx context.Context, id int64) (*domain.BookingWithClient, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithClient, error)
	UpdateStatus(ctx context.Context, id int64, expected, next domain.BookingStatus) (*domain.Booking, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	TouchLastSession(ctx context.Context, id int64, at time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
