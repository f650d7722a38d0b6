package update_client

import (
	"github.com/m04kA/SMC-CoachBooking/internal/service/clients/models"
)

// UpdateClientRequest HTTP request model; отсутствующие поля не меняются
type UpdateClientRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Archived *bool   `json:"archived,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateClientRequest) ToServiceRequest() *models.UpdateClientRequest {
	return &models.UpdateClientRequest{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Notes:    r.Notes,
		Archived: r.Archived,
	}
}
