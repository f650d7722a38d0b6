package models

import (
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// CreateBlockedTimeRequest запрос на закрытие интервала
type CreateBlockedTimeRequest struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reason    *string   `json:"reason,omitempty"`
}

// ListBlockedTimesRequest период выборки; без дат возвращаются текущие и будущие блокировки
type ListBlockedTimesRequest struct {
	From *time.Time
	To   *time.Time
}

// BlockedTimeResponse закрытый интервал
type BlockedTimeResponse struct {
	ID        int64     `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlockedTimeListResponse список блокировок
type BlockedTimeListResponse struct {
	BlockedTimes []BlockedTimeResponse `json:"blockedTimes"`
}

// FromDomain конвертирует блокировку в ответ API
func FromDomain(b *domain.BlockedTime, loc *time.Location) BlockedTimeResponse {
	return BlockedTimeResponse{
		ID:        b.ID,
		StartTime: b.StartTime.In(loc),
		EndTime:   b.EndTime.In(loc),
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}
