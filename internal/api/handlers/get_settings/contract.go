package get_settings

import (
	"context"

	"github.com/m04kA/SMC-CoachBooking/internal/service/settings/models"
)

type SettingsService interface {
	GetSettings(ctx context.Context) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
