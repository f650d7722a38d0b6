package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBooking/pkg/psqlbuilder"
)

// Repository репозиторий настроек расписания (одна строка id = 1)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get читает настройки
func (r *Repository) Get(ctx context.Context) (*domain.Settings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"session_duration_minutes",
		"buffer_time_minutes",
		"working_hours",
		"advance_booking_days",
		"updated_at",
	).
		From("settings").
		Where(squirrel.Eq{"id": domain.SettingsID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		s         domain.Settings
		hoursJSON []byte
		updatedAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.SessionDurationMinutes,
		&s.BufferTimeMinutes,
		&hoursJSON,
		&s.AdvanceBookingDays,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %w", ErrScanRow, err)
	}

	if len(hoursJSON) > 0 {
		if err := json.Unmarshal(hoursJSON, &s.WorkingHours); err != nil {
			return nil, fmt.Errorf("%w: Get - working_hours: %v", ErrEncode, err)
		}
	}
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// Save создает или перезаписывает настройки
func (r *Repository) Save(ctx context.Context, s *domain.Settings) (*domain.Settings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	hoursJSON, err := json.Marshal(s.WorkingHours)
	if err != nil {
		return nil, fmt.Errorf("%w: Save - working_hours: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("settings").
		Columns("id", "session_duration_minutes", "buffer_time_minutes", "working_hours", "advance_booking_days").
		Values(domain.SettingsID, s.SessionDurationMinutes, s.BufferTimeMinutes, string(hoursJSON), s.AdvanceBookingDays).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			session_duration_minutes = EXCLUDED.session_duration_minutes,
			buffer_time_minutes = EXCLUDED.buffer_time_minutes,
			working_hours = EXCLUDED.working_hours,
			advance_booking_days = EXCLUDED.advance_booking_days,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Save - execute upsert: %w", ErrExecQuery, err)
	}

	saved := *s
	saved.UpdatedAt = updatedAt.Time

	return &saved, nil
}
