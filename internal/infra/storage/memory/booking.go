package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/booking"
)

// BookingRepository бронирования в памяти
type BookingRepository struct {
	store *Store
}

// SetLockTimeout ограничивает ожидание блокировок дня в текущей транзакции
func (r *BookingRepository) SetLockTimeout(ctx context.Context, timeout time.Duration) error {
	tx, ok := txFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: SetLockTimeout", bookingRepo.ErrTransaction)
	}
	tx.lockTimeout = timeout
	return nil
}

// LockDay берет блокировку календарного дня до конца транзакции
func (r *BookingRepository) LockDay(ctx context.Context, day time.Time) error {
	return r.store.lockDay(ctx, day)
}

// ListActive возвращает pending/approved бронирования, пересекающиеся с [from, to)
func (r *BookingRepository) ListActive(_ context.Context, from, to time.Time) ([]*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	window := domain.Interval{Start: from, End: to}
	result := make([]*domain.Booking, 0)
	for _, b := range r.store.bookings {
		if b.IsActive() && b.Interval().Overlaps(window) {
			copied := *b
			result = append(result, &copied)
		}
	}
	sortBookings(result)

	return result, nil
}

// Create сохраняет бронирование, отклоняя пересечение с активными (аналог EXCLUDE ограничения)
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.clients[booking.ClientID]; !ok {
		return nil, fmt.Errorf("%w: Create - client %d does not exist", bookingRepo.ErrExecQuery, booking.ClientID)
	}

	if booking.Status.IsActive() {
		for _, existing := range r.store.bookings {
			if existing.IsActive() && existing.Interval().Overlaps(booking.Interval()) {
				return nil, fmt.Errorf("%w: conflicts with booking %d", bookingRepo.ErrOverlap, existing.ID)
			}
		}
	}

	r.store.nextBookingID++
	now := r.store.now()

	created := *booking
	created.ID = r.store.nextBookingID
	if created.Token == "" {
		created.Token = uuid.NewString()
	}
	created.CreatedAt = now
	created.UpdatedAt = now
	r.store.bookings[created.ID] = &created

	id := created.ID
	record(ctx, func() { delete(r.store.bookings, id) })

	*booking = created
	return booking, nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

// GetWithClient получает бронирование вместе с контактами клиента
func (r *BookingRepository) GetWithClient(_ context.Context, id int64) (*domain.BookingWithClient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return r.store.withClient(b), nil
}

// List возвращает бронирования по фильтру, по возрастанию времени начала
func (r *BookingRepository) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithClient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]*domain.Booking, 0)
	for _, b := range r.store.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.ClientID != nil && b.ClientID != *filter.ClientID {
			continue
		}
		if filter.From != nil && !b.EndTime.After(*filter.From) {
			continue
		}
		if filter.To != nil && !b.StartTime.Before(*filter.To) {
			continue
		}
		matched = append(matched, b)
	}
	sortBookings(matched)

	result := make([]*domain.BookingWithClient, 0, len(matched))
	for _, b := range matched {
		result = append(result, r.store.withClient(b))
	}

	return result, nil
}

// UpdateStatus условный переход expected -> next
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, expected, next domain.BookingStatus) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bookings[id]
	if !ok || b.Status != expected {
		return nil, bookingRepo.ErrStatusMismatch
	}

	prevStatus, prevUpdatedAt := b.Status, b.UpdatedAt
	b.Status = next
	b.UpdatedAt = r.store.now()
	record(ctx, func() {
		b.Status = prevStatus
		b.UpdatedAt = prevUpdatedAt
	})

	copied := *b
	return &copied, nil
}

func (s *Store) withClient(b *domain.Booking) *domain.BookingWithClient {
	item := &domain.BookingWithClient{Booking: *b}
	if c, ok := s.clients[b.ClientID]; ok {
		item.ClientName = c.Name
		item.ClientEmail = c.Email
		item.ClientPhone = c.Phone
	}
	return item
}

func sortBookings(list []*domain.Booking) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].StartTime.Equal(list[j].StartTime) {
			return list[i].ID < list[j].ID
		}
		return list[i].StartTime.Before(list[j].StartTime)
	})
}
