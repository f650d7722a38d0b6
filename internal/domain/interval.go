package domain

import (
	"fmt"
	"time"
)

// Interval half-open time range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval validates start < end
func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: interval start %s must be before end %s",
			ErrValidation, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// IsValid reports whether Start < End
func (i Interval) IsValid() bool {
	return i.Start.Before(i.End)
}

// Duration returns End - Start
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps is strict: intervals that only touch at a boundary do not overlap
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// IsPast reports whether the interval has fully elapsed at now
func (i Interval) IsPast(now time.Time) bool {
	return !i.End.After(now)
}

// Equal compares instants, ignoring location
func (i Interval) Equal(other Interval) bool {
	return i.Start.Equal(other.Start) && i.End.Equal(other.End)
}

// In returns the same interval expressed in loc
func (i Interval) In(loc *time.Location) Interval {
	return Interval{Start: i.Start.In(loc), End: i.End.In(loc)}
}

// LocalDays returns the midnights in loc of every calendar date the interval touches, ascending.
// An interval ending exactly at midnight does not touch the following date.
func (i Interval) LocalDays(loc *time.Location) []time.Time {
	first := localMidnight(i.Start, loc)
	last := localMidnight(i.End.Add(-time.Nanosecond), loc)

	days := []time.Time{first}
	for day := first.AddDate(0, 0, 1); !day.After(last); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

func localMidnight(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}

// Overlaps is the free-function form of Interval.Overlaps
func Overlaps(a, b Interval) bool {
	return a.Overlaps(b)
}

// IsPast is the free-function form of Interval.IsPast
func IsPast(a Interval, now time.Time) bool {
	return a.IsPast(now)
}
