package booking

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	"github.com/m04kA/SMC-CoachBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBooking/pkg/ptr"
)

var (
	start = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	end   = start.Add(50 * time.Minute)
)

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), db, mock
}

func txContext(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) context.Context {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows(bookingColumns)
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings (client_id,start_time,end_time,status,notes,token) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at, updated_at")).
		WithArgs(int64(7), start, end, "pending", "first session", "tok").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

	created, err := repo.Create(context.Background(), &domain.Booking{
		ClientID:  7,
		StartTime: start,
		EndTime:   end,
		Status:    domain.StatusPending,
		Notes:     ptr.Ptr("first session"),
		Token:     "tok",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_ExclusionViolation(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})

	_, err := repo.Create(context.Background(), &domain.Booking{ClientID: 1, StartTime: start, EndTime: end, Status: domain.StatusPending})

	assert.ErrorIs(t, err, ErrOverlap)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_OtherError(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO bookings").WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.Create(context.Background(), &domain.Booking{ClientID: 1, StartTime: start, EndTime: end})

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrOverlap)
}

func TestRepository_ListActive(t *testing.T) {
	repo, _, mock := newRepo(t)
	dayStart := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE status IN ($1,$2) AND start_time < $3 AND end_time > $4 ORDER BY start_time")).
		WithArgs("pending", "approved", dayEnd, dayStart).
		WillReturnRows(bookingRows().AddRow(int64(1), int64(7), start, end, "approved", nil, "tok", now, now))

	list, err := repo.ListActive(context.Background(), dayStart, dayEnd)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusApproved, list[0].Status)
	assert.Nil(t, list[0].Notes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListActive_LocksRowsInTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)
	ctx := txContext(t, db, mock)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY start_time FOR UPDATE")).
		WillReturnRows(bookingRows())

	list, err := repo.ListActive(ctx, start, end)

	require.NoError(t, err)
	assert.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LockDay(t *testing.T) {
	repo, db, mock := newRepo(t)

	err := repo.LockDay(context.Background(), start)
	assert.ErrorIs(t, err, ErrTransaction)

	ctx := txContext(t, db, mock)
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1, $2)")).
		WithArgs(lockNamespace, DayKey(start)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.LockDay(ctx, start))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetLockTimeout(t *testing.T) {
	repo, db, mock := newRepo(t)
	ctx := txContext(t, db, mock)

	mock.ExpectExec(regexp.QuoteMeta("SELECT set_config('lock_timeout', $1, true)")).
		WithArgs("1500ms").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SetLockTimeout(ctx, 1500*time.Millisecond))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDayKey(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	// ключ зависит от календарной даты, а не от момента времени
	assert.Equal(t, DayKey(time.Date(2025, time.March, 10, 0, 30, 0, 0, loc)), DayKey(time.Date(2025, time.March, 10, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, DayKey(start)+1, DayKey(start.AddDate(0, 0, 1)))
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3 RETURNING id")).
		WithArgs("approved", int64(5), "pending").
		WillReturnRows(bookingRows().AddRow(int64(5), int64(7), start, end, "approved", nil, "tok", now, now))

	updated, err := repo.UpdateStatus(context.Background(), 5, domain.StatusPending, domain.StatusApproved)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_Mismatch(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("UPDATE bookings").WillReturnRows(bookingRows())

	_, err := repo.UpdateStatus(context.Background(), 5, domain.StatusPending, domain.StatusApproved)

	assert.ErrorIs(t, err, ErrStatusMismatch)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(bookingRows())

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_List(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Now()
	from := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b JOIN clients c ON c.id = b.client_id WHERE b.status = $1 AND b.client_id = $2 AND b.end_time > $3 AND b.start_time < $4 ORDER BY b.start_time")).
		WithArgs("pending", int64(7), from, to).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "client_id", "start_time", "end_time", "status", "notes", "token", "created_at", "updated_at", "name", "email", "phone",
		}).AddRow(int64(1), int64(7), start, end, "pending", nil, "tok", now, now, "Jane", "jane@example.com", "+100"))

	list, err := repo.List(context.Background(), domain.BookingsFilter{
		Status:   ptr.Ptr(domain.StatusPending),
		ClientID: ptr.Ptr(int64(7)),
		From:     &from,
		To:       &to,
	})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Jane", list[0].ClientName)
	assert.Equal(t, "+100", ptr.Value(list[0].ClientPhone))
	require.NoError(t, mock.ExpectationsWereMet())
}
