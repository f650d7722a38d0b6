package get_availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: get_availability: invalid input data", domain.ErrValidation)

	// ErrNotConfigured возвращается, когда настройки расписания отсутствуют или некорректны
	ErrNotConfigured = fmt.Errorf("%w: get_availability: schedule is not configured", domain.ErrConfiguration)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
