package txmanager

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBooking/pkg/dbmetrics"
)

func newManager(t *testing.T) (*TransactionManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTransactionManager(db), mock
}

func TestDoSerializable_Commit(t *testing.T) {
	mgr, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		require.True(t, dbmetrics.IsInTransaction(ctx))
		_, err := dbmetrics.GetExecutor(ctx, nil).ExecContext(ctx, "UPDATE bookings SET status = 'approved'")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_RollbackOnError(t *testing.T) {
	mgr, mock := newManager(t)
	errBusiness := errors.New("slot taken")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return errBusiness
	})

	assert.ErrorIs(t, err, errBusiness)
	assert.False(t, IsSerializationFailure(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_SerializationFailure(t *testing.T) {
	mgr, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		_, err := dbmetrics.GetExecutor(ctx, nil).ExecContext(ctx, "INSERT INTO bookings DEFAULT VALUES")
		return err
	})

	assert.True(t, IsSerializationFailure(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_CommitSerializationFailure(t *testing.T) {
	mgr, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, ErrSerializationFailure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_LockNotAvailable(t *testing.T) {
	mgr, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WillReturnError(&pq.Error{Code: "55P03"})
	mock.ExpectRollback()

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		_, err := dbmetrics.GetExecutor(ctx, nil).ExecContext(ctx, "SELECT pg_advisory_xact_lock(1)")
		return err
	})

	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_NestedReusesTransaction(t *testing.T) {
	mgr, mock := newManager(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := mgr.Do(context.Background(), func(ctx context.Context) error {
		outer, _ := dbmetrics.TxFromContext(ctx)
		return mgr.DoSerializable(ctx, func(inner context.Context) error {
			tx, _ := dbmetrics.TxFromContext(inner)
			assert.Same(t, outer, tx)
			return nil
		})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_BeginError(t *testing.T) {
	mgr, mock := newManager(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := mgr.Do(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not be called")
		return nil
	})

	assert.ErrorIs(t, err, ErrBeginTx)
	assert.NoError(t, mock.ExpectationsWereMet())
}
