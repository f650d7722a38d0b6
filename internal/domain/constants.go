package domain

const (
	// DateFormat формат даты в API и логах
	DateFormat = "2006-01-02"

	// DefaultTimezone часовой пояс по умолчанию
	DefaultTimezone = "UTC"
)

// Ограничения настроек
const (
	MinSessionDurationMinutes = 5
	MaxSessionDurationMinutes = 480
	MaxBufferTimeMinutes      = 240
	MaxAdvanceBookingDays     = 365
)
