// Package scheduling строит сетку слотов рабочего дня и определяет их доступность
package scheduling

import (
	"fmt"
	"iter"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// Generator строит слоты по рабочим часам в заданном часовом поясе
type Generator struct {
	loc *time.Location
}

// NewGenerator создает генератор; nil означает UTC
func NewGenerator(loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{loc: loc}
}

// Location часовой пояс, в котором интерпретируются рабочие часы
func (g *Generator) Location() *time.Location {
	return g.loc
}

// DayBounds возвращает [полночь, следующая полночь) для календарной даты date
func (g *Generator) DayBounds(date time.Time) domain.Interval {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, g.loc)
	return domain.Interval{Start: start, End: time.Date(y, m, d+1, 0, 0, 0, 0, g.loc)}
}

// Slots возвращает кандидатов на дату date по возрастанию
// Выходной день дает пустую последовательность. Последовательность можно обходить повторно.
func (g *Generator) Slots(date time.Time, hours domain.WorkingHours, policy domain.SessionPolicy) (iter.Seq[domain.Interval], error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, g.loc)

	window := hours.For(day.Weekday())
	if window == nil {
		return func(func(domain.Interval) bool) {}, nil
	}

	dayStart, err := window.Start.On(day, g.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: working hours start: %v", domain.ErrConfiguration, err)
	}
	dayEnd, err := window.End.On(day, g.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: working hours end: %v", domain.ErrConfiguration, err)
	}

	stride := policy.Stride()
	duration := policy.SessionDuration

	return func(yield func(domain.Interval) bool) {
		for cursor := dayStart; !cursor.Add(duration).After(dayEnd); cursor = cursor.Add(stride) {
			if !yield(domain.Interval{Start: cursor, End: cursor.Add(duration)}) {
				return
			}
		}
	}, nil
}

// Contains проверяет, что interval совпадает с одним из слотов своей даты
func (g *Generator) Contains(interval domain.Interval, hours domain.WorkingHours, policy domain.SessionPolicy) (bool, error) {
	slots, err := g.Slots(interval.Start.In(g.loc), hours, policy)
	if err != nil {
		return false, err
	}
	for candidate := range slots {
		if candidate.Equal(interval) {
			return true, nil
		}
		if candidate.Start.After(interval.Start) {
			break
		}
	}
	return false, nil
}
