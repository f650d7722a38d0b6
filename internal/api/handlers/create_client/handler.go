package create_client

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/service/clients"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные клиента"
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

// Handle POST /api/v1/clients
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clients - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, clients.ErrEmailExists):
			h.logger.Warn("POST /clients - Email already exists: email=%s", req.Email)
			handlers.RespondConflict(w, msgEmailExists)

		case errors.Is(err, clients.ErrInvalidInput):
			h.logger.Warn("POST /clients - Invalid data: %v", err)
			handlers.RespondError(w, http.StatusBadRequest, msgInvalidData+": "+err.Error())

		default:
			h.logger.Error("POST /clients - Failed to create client: email=%s, error=%v", req.Email, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /clients - Client created successfully: client_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
