package domain

// ConflictReason why a candidate slot is unavailable
type ConflictReason string

const (
	ConflictNone    ConflictReason = "none"
	ConflictBooking ConflictReason = "booking"
	ConflictBlocked ConflictReason = "blocked"
	ConflictPast    ConflictReason = "past"
)

// Slot candidate interval with its availability
type Slot struct {
	Interval
	Available bool
	Reason    ConflictReason
}
