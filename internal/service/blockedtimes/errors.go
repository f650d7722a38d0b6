package blockedtimes

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

var (
	// ErrBlockedTimeNotFound возвращается, когда блокировка не найдена
	ErrBlockedTimeNotFound = fmt.Errorf("%w: blocked time", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: blockedtimes: invalid input data", domain.ErrValidation)

	// ErrLockTimeout возвращается, когда не дождались блокировки дня
	ErrLockTimeout = errors.New("blockedtimes: timed out waiting for day lock")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("blockedtimes: internal error")
)
