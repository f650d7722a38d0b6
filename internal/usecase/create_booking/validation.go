package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// maxNameLength ограничение длины имени клиента
const maxNameLength = 255

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (domain.Interval, error) {
	if req == nil {
		return domain.Interval{}, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return domain.Interval{}, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}
	if len(name) > maxNameLength {
		return domain.Interval{}, fmt.Errorf("%w: client name is too long", ErrInvalidInput)
	}

	email := domain.NormalizeEmail(req.ClientEmail)
	if email == "" {
		return domain.Interval{}, fmt.Errorf("%w: client email is required", ErrInvalidInput)
	}
	if at := strings.Index(email, "@"); at <= 0 || at == len(email)-1 {
		return domain.Interval{}, fmt.Errorf("%w: invalid client email %q", ErrInvalidInput, req.ClientEmail)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return domain.Interval{}, fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	interval, err := domain.NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return domain.Interval{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return interval, nil
}

// validateHorizon проверяет, что дата слота не дальше advanceBookingDays от сегодняшнего дня
// today и slotDay должны быть полуночами в часовом поясе расписания
func validateHorizon(slotDay, today time.Time, advanceBookingDays int) error {
	if advanceBookingDays <= 0 {
		return nil
	}

	maxDate := today.AddDate(0, 0, advanceBookingDays)
	if slotDay.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}
