package models

import (
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// ListBookingsRequest фильтры списка бронирований
type ListBookingsRequest struct {
	Status   *string    // pending, approved, completed, cancelled
	Date     *time.Time // календарная дата в часовом поясе расписания
	ClientID *int64
}

// ClientInfo контакты клиента
type ClientInfo struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// BookingResponse бронирование с контактами клиента
type BookingResponse struct {
	ID        int64      `json:"id"`
	Client    ClientInfo `json:"client"`
	StartTime time.Time  `json:"startTime"`
	EndTime   time.Time  `json:"endTime"`
	Status    string     `json:"status"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// FromDomain конвертирует бронирование в ответ API
func FromDomain(b *domain.BookingWithClient, loc *time.Location) BookingResponse {
	return BookingResponse{
		ID: b.ID,
		Client: ClientInfo{
			ID:    b.ClientID,
			Name:  b.ClientName,
			Email: b.ClientEmail,
			Phone: b.ClientPhone,
		},
		StartTime: b.StartTime.In(loc),
		EndTime:   b.EndTime.In(loc),
		Status:    string(b.Status),
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
