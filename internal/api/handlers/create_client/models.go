package create_client

import (
	"github.com/m04kA/SMC-CoachBooking/internal/service/clients/models"
)

// CreateClientRequest HTTP request model
type CreateClientRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateClientRequest) ToServiceRequest() *models.CreateClientRequest {
	return &models.CreateClientRequest{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
		Notes: r.Notes,
	}
}
