package blockedtime

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBooking/pkg/psqlbuilder"
)

// Repository репозиторий интервалов, закрытых тренером вручную
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет блокировку
func (r *Repository) Create(ctx context.Context, blocked *domain.BlockedTime) (*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_times").
		Columns("start_time", "end_time", "reason").
		Values(blocked.StartTime, blocked.EndTime, blocked.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&blocked.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	blocked.CreatedAt = createdAt.Time

	return blocked, nil
}

// ListInRange возвращает блокировки, пересекающиеся с [from, to), по возрастанию начала
func (r *Repository) ListInRange(ctx context.Context, from, to time.Time) ([]*domain.BlockedTime, error) {
	return r.list(ctx, psqlbuilder.Select("id", "start_time", "end_time", "reason", "created_at").
		From("blocked_times").
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time"))
}

// ListFrom возвращает блокировки, которые заканчиваются после from
func (r *Repository) ListFrom(ctx context.Context, from time.Time) ([]*domain.BlockedTime, error) {
	return r.list(ctx, psqlbuilder.Select("id", "start_time", "end_time", "reason", "created_at").
		From("blocked_times").
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time"))
}

// Delete удаляет блокировку
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_times").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockedTimeNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, builder squirrel.SelectBuilder) ([]*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: list - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.BlockedTime, 0)
	for rows.Next() {
		var item domain.BlockedTime
		var createdAt sql.NullTime
		if err := rows.Scan(&item.ID, &item.StartTime, &item.EndTime, &item.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: list: %w", ErrScanRow, err)
		}
		item.CreatedAt = createdAt.Time
		result = append(result, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}
