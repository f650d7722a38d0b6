// Package memory хранилище в памяти процесса с теми же гарантиями, что и PostgreSQL схема:
// пересечения активных бронирований запрещены, блокировки дня берутся внутри транзакции,
// откат транзакции отменяет все её записи.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// Store общее состояние всех репозиториев
type Store struct {
	mu sync.RWMutex

	bookings     map[int64]*domain.Booking
	clients      map[int64]*domain.Client
	clientEmails map[string]int64
	blocked      map[int64]*domain.BlockedTime
	settings     *domain.Settings

	nextBookingID int64
	nextClientID  int64
	nextBlockedID int64

	locksMu  sync.Mutex
	dayLocks map[int32]chan struct{}

	now func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		bookings:     make(map[int64]*domain.Booking),
		clients:      make(map[int64]*domain.Client),
		clientEmails: make(map[string]int64),
		blocked:      make(map[int64]*domain.BlockedTime),
		dayLocks:     make(map[int32]chan struct{}),
		now:          time.Now,
	}
}

// Bookings репозиторий бронирований
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// Clients репозиторий клиентов
func (s *Store) Clients() *ClientRepository {
	return &ClientRepository{store: s}
}

// BlockedTimes репозиторий блокировок
func (s *Store) BlockedTimes() *BlockedTimeRepository {
	return &BlockedTimeRepository{store: s}
}

// Settings репозиторий настроек
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{store: s}
}

// dayLock возвращает семафор календарного дня
func (s *Store) dayLock(key int32) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.dayLocks[key]
	if !ok {
		lock = make(chan struct{}, 1)
		s.dayLocks[key] = lock
	}
	return lock
}

// record регистрирует откат записи в транзакции из ctx
func record(ctx context.Context, undo func()) {
	if tx, ok := txFromContext(ctx); ok {
		tx.undo = append(tx.undo, undo)
	}
}
