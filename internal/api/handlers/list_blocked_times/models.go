package list_blocked_times

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/service/blockedtimes/models"
)

// ToServiceRequest разбирает query параметры from и to (YYYY-MM-DD, включительно)
func ToServiceRequest(fromStr, toStr string, loc *time.Location) (*models.ListBlockedTimesRequest, error) {
	req := &models.ListBlockedTimesRequest{}

	if fromStr != "" {
		from, err := handlers.ParseDate(fromStr, loc)
		if err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
		req.From = &from
	}

	if toStr != "" {
		if req.From == nil {
			return nil, errors.New("to requires from")
		}
		to, err := handlers.ParseDate(toStr, loc)
		if err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
		// до конца указанного дня
		to = to.AddDate(0, 0, 1)
		req.To = &to
	}

	return req, nil
}
