package clients

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

var (
	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = fmt.Errorf("%w: client", domain.ErrNotFound)

	// ErrEmailExists возвращается, когда email уже принадлежит другому клиенту
	ErrEmailExists = fmt.Errorf("%w: client with this email", domain.ErrAlreadyExists)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: clients: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("clients: internal error")
)
