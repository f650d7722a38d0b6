package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrOverlap возвращается, когда вставка нарушила ограничение на пересечение активных бронирований
	ErrOverlap = errors.New("booking.repository: booking overlaps an active booking")

	// ErrStatusMismatch возвращается, когда условное обновление статуса не затронуло ни одной строки
	ErrStatusMismatch = errors.New("booking.repository: booking status does not match expected")

	// ErrTransaction возвращается, если операция требует транзакции, а её нет
	ErrTransaction = errors.New("booking.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
