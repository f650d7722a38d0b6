package models

import (
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// ListClientsRequest фильтры списка клиентов
type ListClientsRequest struct {
	IncludeArchived bool
}

// CreateClientRequest данные нового клиента
type CreateClientRequest struct {
	Name  string
	Email string
	Phone *string
	Notes *string
}

// UpdateClientRequest изменяемые поля; nil означает "не менять"
type UpdateClientRequest struct {
	Name     *string
	Email    *string
	Phone    *string
	Notes    *string
	Archived *bool
}

// ClientStats счетчики сессий клиента
type ClientStats struct {
	TotalSessions    int `json:"totalSessions"`
	UpcomingSessions int `json:"upcomingSessions"`
}

// ClientResponse карточка клиента
type ClientResponse struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Phone         *string      `json:"phone,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
	Archived      bool         `json:"archived"`
	LastSessionAt *time.Time   `json:"lastSessionAt,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	Stats         *ClientStats `json:"stats,omitempty"`
}

// ClientListResponse список клиентов
type ClientListResponse struct {
	Clients []ClientResponse `json:"clients"`
	Total   int              `json:"total"`
}

// FromDomain конвертирует клиента в ответ API
func FromDomain(c *domain.Client, loc *time.Location) ClientResponse {
	resp := ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Notes:     c.Notes,
		Archived:  c.Archived,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.LastSessionAt != nil {
		last := c.LastSessionAt.In(loc)
		resp.LastSessionAt = &last
	}
	return resp
}
