package client

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

var (
	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("client.repository: client not found")

	// ErrEmailExists возвращается, когда email уже принадлежит другому клиенту
	ErrEmailExists = fmt.Errorf("%w: client.repository: email already exists", domain.ErrAlreadyExists)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("client.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("client.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("client.repository: failed to scan row")
)
