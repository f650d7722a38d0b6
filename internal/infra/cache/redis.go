package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
)

// Redis кэш настроек, общий для нескольких инстансов сервиса
type Redis struct {
	rdb *redis.Client
	key string
}

// NewRedis создает кэш поверх готового клиента
func NewRedis(rdb *redis.Client, key string) *Redis {
	if key == "" {
		key = "coach_booking:settings"
	}
	return &Redis{rdb: rdb, key: key}
}

type entry struct {
	SessionDurationMinutes int                 `json:"sessionDurationMinutes"`
	BufferTimeMinutes      int                 `json:"bufferTimeMinutes"`
	WorkingHours           domain.WorkingHours `json:"workingHours"`
	AdvanceBookingDays     int                 `json:"advanceBookingDays"`
	UpdatedAt              time.Time           `json:"updatedAt"`
}

// Get читает настройки; отсутствие ключа не ошибка
func (r *Redis) Get(ctx context.Context) (*domain.Settings, bool, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %w", ErrBackend, r.key, err)
	}

	s, err := decode(raw)
	if err != nil {
		return nil, false, err
	}

	return s, true, nil
}

// Set сохраняет настройки с TTL
// Запись с более поздним UpdatedAt не перезаписывается: ключ читается и пишется под WATCH.
func (r *Redis) Set(ctx context.Context, s *domain.Settings, ttl time.Duration) error {
	raw, err := encode(s)
	if err != nil {
		return err
	}

	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, r.key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			if cached, decodeErr := decode(current); decodeErr == nil && isNewer(cached, s) {
				return nil
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, raw, ttl)
			return nil
		})
		return err
	}, r.key)

	// ключ изменил конкурентный писатель, его значение не старше нашего
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrBackend, r.key, err)
	}

	return nil
}

// Delete удаляет ключ
func (r *Redis) Delete(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %w", ErrBackend, r.key, err)
	}
	return nil
}

func encode(s *domain.Settings) ([]byte, error) {
	raw, err := json.Marshal(entry{
		SessionDurationMinutes: s.SessionDurationMinutes,
		BufferTimeMinutes:      s.BufferTimeMinutes,
		WorkingHours:           s.WorkingHours,
		AdvanceBookingDays:     s.AdvanceBookingDays,
		UpdatedAt:              s.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return raw, nil
}

func decode(raw []byte) (*domain.Settings, error) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return &domain.Settings{
		SessionDurationMinutes: e.SessionDurationMinutes,
		BufferTimeMinutes:      e.BufferTimeMinutes,
		WorkingHours:           e.WorkingHours,
		AdvanceBookingDays:     e.AdvanceBookingDays,
		UpdatedAt:              e.UpdatedAt,
	}, nil
}
