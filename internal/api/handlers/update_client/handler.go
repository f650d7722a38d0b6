package update_client

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/service/clients"
)

const (
	msgInvalidClientID    = "некорректный ID клиента"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные клиента"
	msgNotFound           = "клиент не найден"
	msgEmailExists        = "клиент с таким email уже существует"
)

type Handler struct {
	service ClientService
	logger  Logger
}

func NewHandler(service ClientService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/clients/{clientId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, err := handlers.PathID(r, "clientId")
	if err != nil {
		h.logger.Warn("PATCH /clients/{id} - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	var req UpdateClientRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /clients/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), clientID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrClientNotFound):
			h.logger.Warn("PATCH /clients/{id} - Client not found: client_id=%d", clientID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, clients.ErrEmailExists):
			h.logger.Warn("PATCH /clients/{id} - Email already exists: client_id=%d", clientID)
			handlers.RespondConflict(w, msgEmailExists)

		case errors.Is(err, clients.ErrInvalidInput):
			h.logger.Warn("PATCH /clients/{id} - Invalid data: %v", err)
			handlers.RespondError(w, http.StatusBadRequest, msgInvalidData+": "+err.Error())

		default:
			h.logger.Error("PATCH /clients/{id} - Failed to update client: client_id=%d, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /clients/{id} - Client updated successfully: client_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
