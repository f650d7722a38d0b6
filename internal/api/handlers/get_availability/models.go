package get_availability

import (
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	getAvailability "github.com/m04kA/SMC-CoachBooking/internal/usecase/get_availability"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// AvailabilityResponse HTTP модель ответа
type AvailabilityResponse struct {
	Date     string         `json:"date"`
	Timezone string         `json:"timezone"`
	Slots    []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slot := SlotResponse{
			StartTime: s.StartTime.Format(time.RFC3339),
			EndTime:   s.EndTime.Format(time.RFC3339),
			Available: s.Available,
		}
		if s.Reason != domain.ConflictNone {
			slot.Reason = string(s.Reason)
		}
		slots = append(slots, slot)
	}

	return &AvailabilityResponse{
		Date:     resp.Date.Format(domain.DateFormat),
		Timezone: resp.Timezone,
		Slots:    slots,
	}
}
