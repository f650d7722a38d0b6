package archive_client

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/service/clients"
)

const (
	msgInvalidClientID = "некорректный ID клиента"
	msgNotFound        = "клиент не найден"
)

// Handler архивирует или возвращает клиента из архива
type Handler struct {
	service  ClientService
	archived bool
	route    string
	logger   Logger
}

func NewHandler(service ClientService, archived bool, logger Logger) *Handler {
	route := "PATCH /clients/{id}/unarchive"
	if archived {
		route = "PATCH /clients/{id}/archive"
	}
	return &Handler{
		service:  service,
		archived: archived,
		route:    route,
		logger:   logger,
	}
}

// Handle PATCH /api/v1/clients/{clientId}/archive
// Handle PATCH /api/v1/clients/{clientId}/unarchive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, err := handlers.PathID(r, "clientId")
	if err != nil {
		h.logger.Warn("%s - Invalid client ID: %v", h.route, err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	result, err := h.service.SetArchived(r.Context(), clientID, h.archived)
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrClientNotFound):
			h.logger.Warn("%s - Client not found: client_id=%d", h.route, clientID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("%s - Failed to update client: client_id=%d, error=%v", h.route, clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Client updated successfully: client_id=%d, archived=%t", h.route, clientID, result.Archived)
	handlers.RespondJSON(w, http.StatusOK, result)
}
