package booking_transition

import (
	"context"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/internal/service/bookings/models"
)

type BookingService interface {
	Transition(ctx context.Context, id int64, action domain.BookingAction) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
