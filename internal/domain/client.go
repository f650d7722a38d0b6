package domain

import (
	"strings"
	"time"
)

// Client represents a person who books sessions with the coach
type Client struct {
	ID            int64
	Name          string
	Email         string
	Phone         *string
	Notes         *string
	Archived      bool
	LastSessionAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ClientsFilter selects clients for listing; archived clients are hidden unless IncludeArchived
type ClientsFilter struct {
	IncludeArchived bool
}

// ClientStats booking counters shown on the client card
type ClientStats struct {
	TotalSessions    int
	UpcomingSessions int
}

// NormalizeEmail returns the canonical form used as the client identity
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CountSessions counts all bookings of a client and the active ones that start after now
func CountSessions(bookings []*Booking, now time.Time) ClientStats {
	var stats ClientStats
	for _, b := range bookings {
		stats.TotalSessions++
		if b.IsActive() && b.StartTime.After(now) {
			stats.UpcomingSessions++
		}
	}
	return stats
}
