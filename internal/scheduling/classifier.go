package scheduling

import (
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// Classifier проверяет кандидата против занятых и заблокированных интервалов
type Classifier struct {
	bookings []domain.Interval
	blocked  []domain.Interval
	now      time.Time
}

// NewClassifier фиксирует набор занятых интервалов и текущее время
func NewClassifier(bookings, blocked []domain.Interval, now time.Time) *Classifier {
	return &Classifier{bookings: bookings, blocked: blocked, now: now}
}

// Classify возвращает первую причину недоступности или ConflictNone
// Порядок проверки: бронирование, блокировка, прошедшее время.
func (c *Classifier) Classify(candidate domain.Interval) domain.ConflictReason {
	for _, b := range c.bookings {
		if candidate.Overlaps(b) {
			return domain.ConflictBooking
		}
	}
	for _, b := range c.blocked {
		if candidate.Overlaps(b) {
			return domain.ConflictBlocked
		}
	}
	if candidate.IsPast(c.now) {
		return domain.ConflictPast
	}
	return domain.ConflictNone
}

// Slot оборачивает кандидата в domain.Slot
func (c *Classifier) Slot(candidate domain.Interval) domain.Slot {
	reason := c.Classify(candidate)
	return domain.Slot{
		Interval:  candidate,
		Available: reason == domain.ConflictNone,
		Reason:    reason,
	}
}

// BookingIntervals извлекает интервалы активных бронирований
func BookingIntervals(bookings []*domain.Booking) []domain.Interval {
	out := make([]domain.Interval, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			out = append(out, b.Interval())
		}
	}
	return out
}

// BlockedIntervals извлекает интервалы блокировок
func BlockedIntervals(blocked []*domain.BlockedTime) []domain.Interval {
	out := make([]domain.Interval, 0, len(blocked))
	for _, b := range blocked {
		out = append(out, b.Interval())
	}
	return out
}
