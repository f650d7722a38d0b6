package get_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-CoachBooking/internal/usecase/get_availability"
)

const (
	msgMissingDate   = "не указана дата"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgNotConfigured = "расписание коуча еще не настроено"
)

type Handler struct {
	useCase  GetAvailabilityUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailabilityUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/bookings/availability?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /bookings/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := handlers.ParseDate(dateStr, h.location)
	if err != nil {
		h.logger.Warn("GET /bookings/availability - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{Date: date})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /bookings/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getAvailability.ErrNotConfigured):
			h.logger.Warn("GET /bookings/availability - Not configured: %v", err)
			handlers.RespondServiceUnavailable(w, msgNotConfigured)

		default:
			h.logger.Error("GET /bookings/availability - Failed to get slots: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/availability - Slots retrieved: date=%s, count=%d", dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
