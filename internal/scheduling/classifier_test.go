package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

func span(startHour, startMin, endHour, endMin int) domain.Interval {
	return domain.Interval{
		Start: monday.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		End:   monday.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
	}
}

func TestClassifier_Classify(t *testing.T) {
	now := monday.Add(8 * time.Hour)
	c := NewClassifier(
		[]domain.Interval{span(10, 0, 10, 50)},
		[]domain.Interval{span(11, 30, 12, 0)},
		now,
	)

	tests := []struct {
		name      string
		candidate domain.Interval
		want      domain.ConflictReason
	}{
		{"free", span(9, 0, 9, 50), domain.ConflictNone},
		{"booked", span(10, 0, 10, 50), domain.ConflictBooking},
		{"partially booked", span(10, 30, 11, 20), domain.ConflictBooking},
		{"adjacent to booking", span(10, 50, 11, 30), domain.ConflictNone},
		{"blocked", span(11, 0, 11, 50), domain.ConflictBlocked},
		{"past", span(7, 0, 7, 50), domain.ConflictPast},
		{"ends exactly now", span(7, 10, 8, 0), domain.ConflictPast},
		{"in progress", span(7, 30, 8, 20), domain.ConflictNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.candidate))
		})
	}
}

func TestClassifier_BookingWinsOverBlocked(t *testing.T) {
	c := NewClassifier([]domain.Interval{span(9, 0, 9, 50)}, []domain.Interval{span(9, 0, 12, 0)}, monday.AddDate(0, 0, 1))

	slot := c.Slot(span(9, 0, 9, 50))

	assert.False(t, slot.Available)
	assert.Equal(t, domain.ConflictBooking, slot.Reason)
}

func TestClassifier_Scenario(t *testing.T) {
	g := NewGenerator(time.UTC)
	seq, err := g.Slots(monday, hours("monday", "09:00", "12:00"), policy(50, 10))
	if !assert.NoError(t, err) {
		return
	}

	c := NewClassifier([]domain.Interval{span(10, 0, 10, 50)}, nil, monday)

	var available []bool
	for candidate := range seq {
		available = append(available, c.Slot(candidate).Available)
	}

	assert.Equal(t, []bool{true, false, true}, available)
}

func TestBookingIntervals_SkipsInactive(t *testing.T) {
	active := &domain.Booking{StartTime: monday.Add(9 * time.Hour), EndTime: monday.Add(10 * time.Hour), Status: domain.StatusApproved}
	cancelled := &domain.Booking{StartTime: monday.Add(11 * time.Hour), EndTime: monday.Add(12 * time.Hour), Status: domain.StatusCancelled}

	got := BookingIntervals([]*domain.Booking{active, cancelled})

	assert.Equal(t, []domain.Interval{active.Interval()}, got)
}
