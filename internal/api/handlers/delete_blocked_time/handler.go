package delete_blocked_time

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/service/blockedtimes"
)

const (
	msgInvalidID = "некорректный ID блокировки"
	msgNotFound  = "блокировка не найдена"
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

// Handle DELETE /api/v1/blocked-times/{blockedTimeId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "blockedTimeId")
	if err != nil {
		h.logger.Warn("DELETE /blocked-times/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, blockedtimes.ErrBlockedTimeNotFound):
			h.logger.Warn("DELETE /blocked-times/{id} - Not found: id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /blocked-times/{id} - Failed to delete: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /blocked-times/{id} - Blocked time deleted: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}
