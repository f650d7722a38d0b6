package booking

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

const (
	// codeExclusionViolation нарушение EXCLUDE ограничения bookings_no_overlap
	codeExclusionViolation pq.ErrorCode = "23P01"

	// lockNamespace первый ключ pg_advisory_xact_lock(int, int), второй ключ - номер дня
	lockNamespace int32 = 0x0c0ac4
)

var bookingColumns = []string{
	"id",
	"client_id",
	"start_time",
	"end_time",
	"status",
	"notes",
	"token",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// DayKey номер календарного дня, используемый как ключ advisory lock
func DayKey(day time.Time) int32 {
	y, m, d := day.Date()
	return int32(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// SetLockTimeout ограничивает ожидание блокировок в текущей транзакции
func (r *Repository) SetLockTimeout(ctx context.Context, timeout time.Duration) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: SetLockTimeout", ErrTransaction)
	}

	value := fmt.Sprintf("%dms", timeout.Milliseconds())
	if _, err := tx.ExecContext(ctx, "SELECT set_config('lock_timeout', $1, true)", value); err != nil {
		return fmt.Errorf("%w: SetLockTimeout - execute: %w", ErrExecQuery, err)
	}

	return nil
}

// LockDay берет транзакционную advisory-блокировку на календарный день
// Блокировка снимается при commit/rollback. Работает только внутри транзакции.
func (r *Repository) LockDay(ctx context.Context, day time.Time) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: LockDay", ErrTransaction)
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1, $2)", lockNamespace, DayKey(day)); err != nil {
		return fmt.Errorf("%w: LockDay - execute: %w", ErrExecQuery, err)
	}

	return nil
}

// ListActive возвращает pending/approved бронирования, пересекающиеся с [from, to)
// Внутри транзакции строки блокируются FOR UPDATE.
func (r *Repository) ListActive(ctx context.Context, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": activeStatuses()}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Create сохраняет бронирование
// Пересечение с активным бронированием, пойманное ограничением БД, возвращается как ErrOverlap.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns("client_id", "start_time", "end_time", "status", "notes", "token").
		Values(booking.ClientID, booking.StartTime, booking.EndTime, booking.Status, booking.Notes, booking.Token).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &createdAt, &updatedAt)
	if err != nil {
		if isExclusionViolation(err) {
			return nil, fmt.Errorf("%w: %w", ErrOverlap, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetWithClient получает бронирование вместе с контактами клиента
func (r *Repository) GetWithClient(ctx context.Context, id int64) (*domain.BookingWithClient, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := withClientSelect().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithClient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithClient - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	list, err := scanBookingsWithClient(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrBookingNotFound
	}

	return list[0], nil
}

// List возвращает бронирования с контактами клиентов по фильтру, по возрастанию времени начала
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingWithClient, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := withClientSelect().OrderBy("b.start_time")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *filter.Status})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.client_id": *filter.ClientID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"b.end_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"b.start_time": *filter.To})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookingsWithClient(rows)
}

// UpdateStatus переводит бронирование из expected в next одним условным UPDATE
// Если строка не обновлена, возвращает ErrStatusMismatch: бронирования нет либо статус уже другой.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, expected, next domain.BookingStatus) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", next).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": expected}).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusMismatch
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	return booking, nil
}

func withClientSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"b.id",
		"b.client_id",
		"b.start_time",
		"b.end_time",
		"b.status",
		"b.notes",
		"b.token",
		"b.created_at",
		"b.updated_at",
		"c.name",
		"c.email",
		"c.phone",
	).
		From("bookings b").
		Join("clients c ON c.id = b.client_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.Notes,
		&booking.Token,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func scanBookingsWithClient(rows *sql.Rows) ([]*domain.BookingWithClient, error) {
	result := make([]*domain.BookingWithClient, 0)

	for rows.Next() {
		var item domain.BookingWithClient
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&item.ID,
			&item.ClientID,
			&item.StartTime,
			&item.EndTime,
			&item.Status,
			&item.Notes,
			&item.Token,
			&createdAt,
			&updatedAt,
			&item.ClientName,
			&item.ClientEmail,
			&item.ClientPhone,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookingsWithClient: %w", ErrScanRow, err)
		}

		item.CreatedAt = createdAt.Time
		item.UpdatedAt = updatedAt.Time
		result = append(result, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookingsWithClient - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

func activeStatuses() []string {
	out := make([]string, 0, len(domain.ActiveStatuses))
	for _, s := range domain.ActiveStatuses {
		out = append(out, string(s))
	}
	return out
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeExclusionViolation
}
