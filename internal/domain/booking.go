package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ActiveStatuses statuses that reserve the booked interval
var ActiveStatuses = []BookingStatus{StatusPending, StatusApproved}

// IsValid returns true for one of the known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsActive returns true if the status still holds its time slot
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// IsTerminal returns true for statuses without outgoing transitions
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// BookingAction lifecycle action applied by the coach
type BookingAction string

const (
	ActionApprove  BookingAction = "approve"
	ActionReject   BookingAction = "reject"
	ActionComplete BookingAction = "complete"
)

// Target returns the status the action moves a booking into
func (a BookingAction) Target() (BookingStatus, bool) {
	switch a {
	case ActionApprove:
		return StatusApproved, true
	case ActionReject:
		return StatusCancelled, true
	case ActionComplete:
		return StatusCompleted, true
	}
	return "", false
}

// AllowedFrom returns the statuses from which the action is permitted
func (a BookingAction) AllowedFrom() []BookingStatus {
	switch a {
	case ActionApprove:
		return []BookingStatus{StatusPending}
	case ActionReject:
		return []BookingStatus{StatusPending, StatusApproved}
	case ActionComplete:
		return []BookingStatus{StatusApproved}
	}
	return nil
}

// CanApply returns true if the action is permitted from status s
func (a BookingAction) CanApply(s BookingStatus) bool {
	for _, from := range a.AllowedFrom() {
		if from == s {
			return true
		}
	}
	return false
}

// Booking represents a reserved coaching session
type Booking struct {
	ID        int64
	ClientID  int64
	StartTime time.Time
	EndTime   time.Time
	Status    BookingStatus
	Notes     *string
	Token     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the booked time range
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsActive returns true if the booking reserves its interval
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// BookingWithClient booking joined with client contact data
type BookingWithClient struct {
	Booking
	ClientName  string
	ClientEmail string
	ClientPhone *string
}

// BookingsFilter фильтр для списка бронирований
type BookingsFilter struct {
	Status   *BookingStatus // Фильтр по статусу (опционально)
	From     *time.Time     // Начало периода, включительно (опционально)
	To       *time.Time     // Конец периода, не включительно (опционально)
	ClientID *int64         // Фильтр по клиенту (опционально)
}
