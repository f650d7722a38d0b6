package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-CoachBooking/pkg/types"
)

// SettingsID the only row of the settings table
const SettingsID = 1

// DayHours working window of one weekday
type DayHours struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// Validate checks format and start < end
func (h DayHours) Validate() error {
	if err := h.Start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrValidation, err)
	}
	if err := h.End.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrValidation, err)
	}
	if !h.Start.IsBefore(h.End) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrValidation, h.Start, h.End)
	}
	return nil
}

// WorkingHours weekly schedule keyed by lowercase weekday name; nil or absent means closed
type WorkingHours map[string]*DayHours

// WeekdayKey returns the lowercase weekday name used as a WorkingHours key
func WeekdayKey(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// For returns the window for weekday d, or nil if closed
func (w WorkingHours) For(d time.Weekday) *DayHours {
	if w == nil {
		return nil
	}
	return w[WeekdayKey(d)]
}

// Validate checks weekday keys and each open window
func (w WorkingHours) Validate() error {
	known := make(map[string]struct{}, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		known[WeekdayKey(d)] = struct{}{}
	}
	for day, hours := range w {
		if _, ok := known[day]; !ok {
			return fmt.Errorf("%w: unknown weekday %q", ErrValidation, day)
		}
		if hours == nil {
			continue
		}
		if err := hours.Validate(); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
	}
	return nil
}

// SessionPolicy length of one session and pause after it
type SessionPolicy struct {
	SessionDuration time.Duration
	Buffer          time.Duration
}

// Stride distance between consecutive slot starts
func (p SessionPolicy) Stride() time.Duration {
	return p.SessionDuration + p.Buffer
}

// Validate requires a positive duration and a non-negative buffer
func (p SessionPolicy) Validate() error {
	if p.SessionDuration <= 0 {
		return fmt.Errorf("%w: session duration must be positive", ErrConfiguration)
	}
	if p.Buffer < 0 {
		return fmt.Errorf("%w: buffer must not be negative", ErrConfiguration)
	}
	return nil
}

// Settings coach scheduling configuration
type Settings struct {
	SessionDurationMinutes int
	BufferTimeMinutes      int
	WorkingHours           WorkingHours
	AdvanceBookingDays     int // 0 = unlimited
	UpdatedAt              time.Time
}

// Policy returns the session policy derived from the settings
func (s *Settings) Policy() SessionPolicy {
	return SessionPolicy{
		SessionDuration: time.Duration(s.SessionDurationMinutes) * time.Minute,
		Buffer:          time.Duration(s.BufferTimeMinutes) * time.Minute,
	}
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (s *Settings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}
