package get_availability

import (
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// Request модель запроса свободных слотов
type Request struct {
	Date time.Time // Календарная дата (время суток игнорируется)
}

// Response модель ответа со слотами дня
type Response struct {
	Date     time.Time // Полночь даты в часовом поясе расписания
	Timezone string    // Часовой пояс расписания
	Slots    []Slot    // Слоты по возрастанию времени начала
}

// Slot слот с признаком доступности
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
	Available bool
	Reason    domain.ConflictReason // none, booking, blocked, past
}
