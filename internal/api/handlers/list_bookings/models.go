package list_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/service/bookings/models"
)

// ToServiceRequest разбирает query параметры status, date, clientId
func ToServiceRequest(statusStr, dateStr, clientIDStr string, loc *time.Location) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if dateStr != "" {
		date, err := handlers.ParseDate(dateStr, loc)
		if err != nil {
			return nil, fmt.Errorf("date: %w", err)
		}
		req.Date = &date
	}

	if clientIDStr != "" {
		clientID, err := strconv.ParseInt(clientIDStr, 10, 64)
		if err != nil || clientID <= 0 {
			return nil, fmt.Errorf("clientId: invalid value %q", clientIDStr)
		}
		req.ClientID = &clientID
	}

	return req, nil
}
