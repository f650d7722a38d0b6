package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	blockedTimeRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/blockedtime"
)

// BlockedTimeRepository блокировки в памяти
type BlockedTimeRepository struct {
	store *Store
}

// Create сохраняет блокировку
func (r *BlockedTimeRepository) Create(ctx context.Context, blocked *domain.BlockedTime) (*domain.BlockedTime, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextBlockedID++
	created := *blocked
	created.ID = r.store.nextBlockedID
	created.CreatedAt = r.store.now()
	r.store.blocked[created.ID] = &created
	record(ctx, func() { delete(r.store.blocked, created.ID) })

	*blocked = created
	return blocked, nil
}

// ListInRange возвращает блокировки, пересекающиеся с [from, to)
func (r *BlockedTimeRepository) ListInRange(_ context.Context, from, to time.Time) ([]*domain.BlockedTime, error) {
	window := domain.Interval{Start: from, End: to}
	return r.filter(func(b *domain.BlockedTime) bool { return b.Interval().Overlaps(window) }), nil
}

// ListFrom возвращает блокировки, которые заканчиваются после from
func (r *BlockedTimeRepository) ListFrom(_ context.Context, from time.Time) ([]*domain.BlockedTime, error) {
	return r.filter(func(b *domain.BlockedTime) bool { return b.EndTime.After(from) }), nil
}

// Delete удаляет блокировку
func (r *BlockedTimeRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.blocked[id]
	if !ok {
		return blockedTimeRepo.ErrBlockedTimeNotFound
	}
	delete(r.store.blocked, id)
	record(ctx, func() { r.store.blocked[id] = b })

	return nil
}

func (r *BlockedTimeRepository) filter(keep func(b *domain.BlockedTime) bool) []*domain.BlockedTime {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.BlockedTime, 0)
	for _, b := range r.store.blocked {
		if keep(b) {
			copied := *b
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })

	return result
}
