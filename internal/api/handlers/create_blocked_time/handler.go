package create_blocked_time

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/service/blockedtimes"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC 3339"
	msgInvalidInterval    = "время окончания должно быть позже времени начала"
	msgBusy               = "расписание занято другим запросом, повторите позже"
)

type Handler struct {
	service BlockedTimeService
	logger  Logger
}

func NewHandler(service BlockedTimeService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/blocked-times
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBlockedTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /blocked-times - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /blocked-times - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, blockedtimes.ErrInvalidInput):
			h.logger.Warn("POST /blocked-times - Invalid interval: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, blockedtimes.ErrLockTimeout):
			h.logger.Warn("POST /blocked-times - Lock timeout: %v", err)
			handlers.RespondServiceUnavailable(w, msgBusy)

		default:
			h.logger.Error("POST /blocked-times - Failed to create blocked time: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /blocked-times - Blocked time created: id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
