package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBooking/pkg/psqlbuilder"
)

// codeUniqueViolation нарушение ограничения clients_email_unique
const codeUniqueViolation pq.ErrorCode = "23505"

var clientColumns = []string{
	"id",
	"name",
	"email",
	"phone",
	"notes",
	"archived",
	"last_session_at",
	"created_at",
	"updated_at",
}

var returning = "RETURNING " + strings.Join(clientColumns, ", ")

// Repository репозиторий клиентов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert находит клиента по email или создает нового
// Повторный вызов с тем же email возвращает ту же запись; имя и телефон существующего клиента не меняются.
func (r *Repository) Upsert(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("clients").
		Columns("name", "email", "phone").
		Values(client.Name, domain.NormalizeEmail(client.Email), client.Phone).
		Suffix("ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email " + returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := scanClient(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return result, nil
}

// Create создает клиента; занятый email возвращает ErrEmailExists
func (r *Repository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("clients").
		Columns("name", "email", "phone", "notes").
		Values(client.Name, domain.NormalizeEmail(client.Email), client.Phone, client.Notes).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := scanClient(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrEmailExists, client.Email)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return result, nil
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(clientColumns...).
		From("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	result, err := scanClient(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan client: %w", ErrScanRow, err)
	}

	return result, nil
}

// List возвращает клиентов, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.ClientsFilter) ([]*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(clientColumns...).
		From("clients").
		OrderBy("created_at DESC", "id DESC")
	if !filter.IncludeArchived {
		builder = builder.Where(squirrel.Eq{"archived": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan client: %w", ErrScanRow, err)
		}
		result = append(result, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %w", ErrExecQuery, err)
	}

	return result, nil
}

// Update сохраняет изменяемые поля клиента: имя, email, телефон, заметки и признак архива
func (r *Repository) Update(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("clients").
		Set("name", client.Name).
		Set("email", domain.NormalizeEmail(client.Email)).
		Set("phone", client.Phone).
		Set("notes", client.Notes).
		Set("archived", client.Archived).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": client.ID}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := scanClient(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrClientNotFound
		case isUniqueViolation(err):
			return nil, fmt.Errorf("%w: %s", ErrEmailExists, client.Email)
		default:
			return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
		}
	}

	return result, nil
}

// TouchLastSession записывает время окончания последней проведенной сессии
func (r *Repository) TouchLastSession(ctx context.Context, id int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("clients").
		Set("last_session_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: TouchLastSession - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TouchLastSession - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TouchLastSession - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrClientNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var client domain.Client
	var lastSessionAt, createdAt, updatedAt sql.NullTime

	if err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.Phone,
		&client.Notes,
		&client.Archived,
		&lastSessionAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if lastSessionAt.Valid {
		client.LastSessionAt = &lastSessionAt.Time
	}
	client.CreatedAt = createdAt.Time
	client.UpdatedAt = updatedAt.Time

	return &client, nil
}
