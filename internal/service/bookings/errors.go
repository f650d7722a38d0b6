package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("%w: booking", domain.ErrNotFound)

	// ErrInvalidTransition возвращается, когда переход из текущего статуса запрещен
	ErrInvalidTransition = fmt.Errorf("%w: bookings", domain.ErrInvalidTransition)

	// ErrAlreadyApproved возвращается при повторном подтверждении
	ErrAlreadyApproved = fmt.Errorf("%w: booking is already approved", ErrInvalidTransition)

	// ErrBookingClosed возвращается при попытке изменить завершенное или отмененное бронирование
	ErrBookingClosed = fmt.Errorf("%w: booking is closed", ErrInvalidTransition)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: bookings: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
