package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-CoachBooking/pkg/dbmetrics"
)

// SQLSTATE коды PostgreSQL, после которых транзакцию нельзя закоммитить из-за конкурентов
const (
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
	codeLockNotAvailable     pq.ErrorCode = "55P03"
)

var (
	// ErrBeginTx ошибка открытия транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx ошибка коммита
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrSerializationFailure транзакция проиграла конкурентной транзакции (40001, 40P01)
	ErrSerializationFailure = errors.New("txmanager: serialization failure")

	// ErrLockTimeout не дождались блокировки (55P03 или истёк дедлайн контекста)
	ErrLockTimeout = errors.New("txmanager: lock wait timeout")
)

// TransactionManager выполняет функцию внутри транзакции
// Транзакция передается через context, репозитории достают её через dbmetrics.GetExecutor
type TransactionManager struct {
	db dbmetrics.DBExecutor
}

// NewTransactionManager создает менеджер транзакций для *sql.DB или *dbmetrics.DB
func NewTransactionManager(db dbmetrics.DBExecutor) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции READ COMMITTED
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := dbmetrics.BeginTx(ctx, m.db, opts)
	if err != nil {
		return classify(ctx, fmt.Errorf("%w: %v", ErrBeginTx, err), err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		return classify(ctx, err, err)
	}

	if cerr := tx.Commit(); cerr != nil {
		err = classify(ctx, fmt.Errorf("%w: %v", ErrCommitTx, cerr), cerr)
		return err
	}

	return nil
}

// classify добавляет к ошибке ErrSerializationFailure / ErrLockTimeout, если причина в конкуренции
func classify(ctx context.Context, wrapped error, cause error) error {
	var pqErr *pq.Error
	if errors.As(cause, &pqErr) {
		switch pqErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %v", ErrSerializationFailure, wrapped)
		case codeLockNotAvailable:
			return fmt.Errorf("%w: %v", ErrLockTimeout, wrapped)
		}
	}

	if errors.Is(cause, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrLockTimeout, wrapped)
	}

	return wrapped
}

// IsSerializationFailure проверяет ошибку на конфликт сериализации
func IsSerializationFailure(err error) bool {
	return errors.Is(err, ErrSerializationFailure)
}
