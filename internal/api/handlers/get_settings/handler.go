package get_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CoachBooking/internal/service/settings"
)

const msgNotConfigured = "расписание коуча еще не настроено"

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetSettings(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrSettingsNotConfigured):
			h.logger.Warn("GET /settings - Settings not configured")
			handlers.RespondNotFound(w, msgNotConfigured)

		default:
			h.logger.Error("GET /settings - Failed to get settings: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
