package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CoachBooking/pkg/txmanager"
)

type txKey struct{}

type txState struct {
	held        []chan struct{}
	heldKeys    map[int32]struct{}
	lockTimeout time.Duration
	undo        []func()
}

func txFromContext(ctx context.Context) (*txState, bool) {
	tx, ok := ctx.Value(txKey{}).(*txState)
	return tx, ok
}

// TransactionManager транзакции над Store
// Записи применяются сразу и откатываются при ошибке, блокировки дней снимаются в конце.
type TransactionManager struct {
	store *Store
}

// NewTransactionManager создает менеджер транзакций хранилища
func NewTransactionManager(store *Store) *TransactionManager {
	return &TransactionManager{store: store}
}

// Do выполняет fn в транзакции
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TransactionManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx := &txState{heldKeys: make(map[int32]struct{})}

	defer func() {
		if p := recover(); p != nil {
			m.rollback(tx)
			panic(p)
		}
		if err != nil {
			m.rollback(tx)
		}
		for _, lock := range tx.held {
			<-lock
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, txmanager.ErrLockTimeout) {
			return fmt.Errorf("%w: %w", txmanager.ErrLockTimeout, err)
		}
		return err
	}

	return nil
}

func (m *TransactionManager) rollback(tx *txState) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

// lockDay ждет семафор дня, пока не истечет ctx или lock timeout транзакции
func (s *Store) lockDay(ctx context.Context, day time.Time) error {
	tx, ok := txFromContext(ctx)
	if !ok {
		return fmt.Errorf("%w: LockDay", bookingRepo.ErrTransaction)
	}

	key := bookingRepo.DayKey(day)
	if _, held := tx.heldKeys[key]; held {
		return nil
	}

	waitCtx := ctx
	if tx.lockTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, tx.lockTimeout)
		defer cancel()
	}

	lock := s.dayLock(key)
	select {
	case lock <- struct{}{}:
		tx.held = append(tx.held, lock)
		tx.heldKeys[key] = struct{}{}
		return nil
	case <-waitCtx.Done():
		return fmt.Errorf("%w: day %s: %w", txmanager.ErrLockTimeout, day.Format("2006-01-02"), waitCtx.Err())
	}
}
