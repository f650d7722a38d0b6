package list_client_bookings

import (
	"context"

	"github.com/m04kA/SMC-CoachBooking/internal/service/bookings/models"
)

type ClientService interface {
	Bookings(ctx context.Context, id int64) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
