package settings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

var (
	// ErrSettingsNotConfigured возвращается, когда настройки расписания еще не заданы
	ErrSettingsNotConfigured = fmt.Errorf("%w: settings: not configured", domain.ErrConfiguration)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: settings: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("settings: internal error")
)
