package create_booking

import (
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientName  string
	ClientEmail string
	ClientPhone *string // опционально
	StartTime   time.Time
	EndTime     time.Time
	Notes       *string // опционально
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID        int64
	ClientID  int64
	StartTime time.Time
	EndTime   time.Time
	Status    domain.BookingStatus
	Notes     *string
	Token     string // токен для ссылок клиента на бронирование

	ClientName  string
	ClientEmail string

	CreatedAt time.Time
	UpdatedAt time.Time
}
