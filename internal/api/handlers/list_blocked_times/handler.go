package list_blocked_times

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/service/blockedtimes"
)

const msgInvalidParams = "некорректные параметры запроса"

type Handler struct {
	service  BlockedTimeService
	location *time.Location
	logger   Logger
}

func NewHandler(service BlockedTimeService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/blocked-times
// Query params: from, to (опционально); без параметров возвращаются текущие и будущие блокировки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceReq, err := ToServiceRequest(query.Get("from"), query.Get("to"), h.location)
	if err != nil {
		h.logger.Warn("GET /blocked-times - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.List(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, blockedtimes.ErrInvalidInput):
			h.logger.Warn("GET /blocked-times - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /blocked-times - Failed to list blocked times: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
