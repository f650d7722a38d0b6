package models

import (
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// UpdateSettingsRequest запрос на изменение настроек
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	SessionDurationMinutes *int                 `json:"sessionDurationMinutes,omitempty"`
	BufferTimeMinutes      *int                 `json:"bufferTimeMinutes,omitempty"`
	WorkingHours           *domain.WorkingHours `json:"workingHours,omitempty"`
	AdvanceBookingDays     *int                 `json:"advanceBookingDays,omitempty"` // 0 = без ограничений
}

// SettingsResponse настройки расписания
type SettingsResponse struct {
	SessionDurationMinutes int                 `json:"sessionDurationMinutes"`
	BufferTimeMinutes      int                 `json:"bufferTimeMinutes"`
	WorkingHours           domain.WorkingHours `json:"workingHours"`
	AdvanceBookingDays     int                 `json:"advanceBookingDays"`
	Timezone               string              `json:"timezone"`
	UpdatedAt              time.Time           `json:"updatedAt"`
}
