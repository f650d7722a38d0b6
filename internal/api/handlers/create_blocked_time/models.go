package create_blocked_time

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/service/blockedtimes/models"
)

// CreateBlockedTimeRequest HTTP request model
type CreateBlockedTimeRequest struct {
	StartTime string  `json:"startTime"` // RFC 3339
	EndTime   string  `json:"endTime"`   // RFC 3339
	Reason    *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateBlockedTimeRequest) ToServiceRequest() (*models.CreateBlockedTimeRequest, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	return &models.CreateBlockedTimeRequest{
		StartTime: start,
		EndTime:   end,
		Reason:    r.Reason,
	}, nil
}
