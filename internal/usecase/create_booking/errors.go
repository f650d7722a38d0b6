package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_booking: invalid input data", domain.ErrValidation)

	// ErrInvalidTimeSlot возвращается, когда интервал не совпадает ни с одним слотом своего дня
	ErrInvalidTimeSlot = fmt.Errorf("%w: create_booking: invalid time slot", domain.ErrValidation)

	// ErrSlotInPast возвращается, когда слот уже закончился
	ErrSlotInPast = fmt.Errorf("%w: create_booking: slot is in the past", domain.ErrValidation)

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = fmt.Errorf("%w: create_booking: date is too far in the future", domain.ErrValidation)

	// ErrNotConfigured возвращается, когда настройки расписания отсутствуют или некорректны
	ErrNotConfigured = fmt.Errorf("%w: create_booking: schedule is not configured", domain.ErrConfiguration)

	// ErrSlotConflict возвращается, когда интервал пересекается с бронированием или блокировкой
	ErrSlotConflict = fmt.Errorf("%w: create_booking: slot is already taken", domain.ErrSlotConflict)

	// ErrAdmissionTimeout возвращается, когда не дождались блокировки дня
	ErrAdmissionTimeout = errors.New("create_booking: admission timed out")

	// ErrAdmissionAborted возвращается, когда транзакцию прервал конфликт сериализации, а слот свободен
	// Запрос можно повторить.
	ErrAdmissionAborted = fmt.Errorf("%w: aborted by a concurrent transaction", ErrAdmissionTimeout)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
