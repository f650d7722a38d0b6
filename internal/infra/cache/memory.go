// Package cache хранит настройки расписания между запросами
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// Memory кэш настроек в памяти процесса
type Memory struct {
	mu        sync.RWMutex
	value     *domain.Settings
	expiresAt time.Time
	now       func() time.Time
}

// NewMemory создает пустой кэш
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// Get возвращает копию настроек, если запись есть и не истекла
func (m *Memory) Get(_ context.Context) (*domain.Settings, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.value == nil || !m.now().Before(m.expiresAt) {
		return nil, false, nil
	}

	return cloneSettings(m.value), true, nil
}

// Set сохраняет настройки на ttl
// Живая запись с более поздним UpdatedAt не перезаписывается.
func (m *Memory) Set(_ context.Context, s *domain.Settings, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.value != nil && m.now().Before(m.expiresAt) && isNewer(m.value, s) {
		return nil
	}

	m.value = cloneSettings(s)
	m.expiresAt = m.now().Add(ttl)

	return nil
}

// Delete сбрасывает запись
func (m *Memory) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.value = nil

	return nil
}

// isNewer true, если cached сохранены позже candidate
func isNewer(cached, candidate *domain.Settings) bool {
	return cached.UpdatedAt.After(candidate.UpdatedAt)
}

func cloneSettings(s *domain.Settings) *domain.Settings {
	out := *s
	if s.WorkingHours != nil {
		out.WorkingHours = make(domain.WorkingHours, len(s.WorkingHours))
		for day, hours := range s.WorkingHours {
			if hours == nil {
				out.WorkingHours[day] = nil
				continue
			}
			h := *hours
			out.WorkingHours[day] = &h
		}
	}
	return &out
}
