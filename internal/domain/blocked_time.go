package domain

import "time"

// BlockedTime interval manually closed by the coach
type BlockedTime struct {
	ID        int64
	StartTime time.Time
	EndTime   time.Time
	Reason    *string
	CreatedAt time.Time
}

// Interval returns the blocked time range
func (b *BlockedTime) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}
