package booking_transition

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/internal/service/bookings"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgNotFound          = "бронирование не найдено"
	msgAlreadyApproved   = "бронирование уже подтверждено"
	msgInvalidTransition = "действие недоступно в текущем статусе бронирования"
)

// Handler обрабатывает одно действие тренера: approve, reject или complete
type Handler struct {
	service BookingService
	action  domain.BookingAction
	logger  Logger
}

func NewHandler(service BookingService, action domain.BookingAction, logger Logger) *Handler {
	return &Handler{
		service: service,
		action:  action,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/{approve|reject|complete}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/%s - Invalid booking ID: %v", h.action, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.service.Transition(r.Context(), bookingID, h.action)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/%s - Booking not found: booking_id=%d", h.action, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAlreadyApproved):
			h.logger.Warn("PATCH /bookings/{id}/%s - Already approved: booking_id=%d", h.action, bookingID)
			handlers.RespondConflict(w, msgAlreadyApproved)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/%s - Invalid transition: booking_id=%d, error=%v", h.action, bookingID, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /bookings/{id}/%s - Failed: booking_id=%d, error=%v", h.action, bookingID, err)
			handlers.RespondError(w, handlers.StatusForError(err), http.StatusText(handlers.StatusForError(err)))
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/%s - Booking updated: booking_id=%d, status=%s", h.action, bookingID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
