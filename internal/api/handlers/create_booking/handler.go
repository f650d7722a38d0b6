package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-CoachBooking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC 3339"
	msgSlotConflict       = "выбранный временной слот уже занят"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgSlotInPast         = "выбранный временной слот уже прошел"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgNotConfigured      = "расписание коуча еще не настроено"
	msgAdmissionTimeout   = "слот сейчас бронируется, повторите попытку"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: start=%s, email=%s", req.StartTime, req.ClientEmail)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: start=%s, end=%s", req.StartTime, req.EndTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrSlotInPast):
			h.logger.Warn("POST /bookings - Slot in the past: start=%s", req.StartTime)
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: start=%s", req.StartTime)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrNotConfigured):
			h.logger.Warn("POST /bookings - Not configured: %v", err)
			handlers.RespondServiceUnavailable(w, msgNotConfigured)

		case errors.Is(err, createBooking.ErrAdmissionTimeout):
			h.logger.Warn("POST /bookings - Admission timeout: start=%s", req.StartTime)
			handlers.RespondServiceUnavailable(w, msgAdmissionTimeout)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: start=%s, email=%s, error=%v",
				req.StartTime, req.ClientEmail, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, client_id=%d",
		result.ID, result.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
