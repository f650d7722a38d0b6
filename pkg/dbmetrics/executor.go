package dbmetrics

import (
	"context"
	"database/sql"
	"errors"
)

// ErrUnsupportedDB возвращается, если исполнитель не умеет открывать транзакции
var ErrUnsupportedDB = errors.New("dbmetrics: db type does not support transactions")

// DBExecutor общий интерфейс для *sql.DB, *sql.Tx и их обёрток с метриками
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor активная транзакция
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

// TxBeginner умеет открывать транзакции с метриками
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error)
}

// SqlTxWrapper адаптирует *sql.Tx к TxExecutor
type SqlTxWrapper struct {
	*sql.Tx
}

type txKey struct{}

// WithTx кладет транзакцию в контекст
func WithTx(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext достает транзакцию из контекста
func TxFromContext(ctx context.Context) (TxExecutor, bool) {
	tx, ok := ctx.Value(txKey{}).(TxExecutor)
	return tx, ok && tx != nil
}

// IsInTransaction true, если в контексте есть активная транзакция
func IsInTransaction(ctx context.Context) bool {
	_, ok := TxFromContext(ctx)
	return ok
}

// GetExecutor возвращает транзакцию из контекста, если она есть, иначе db
func GetExecutor(ctx context.Context, db DBExecutor) DBExecutor {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db
}

// BeginTx открывает транзакцию для *DB (с метриками) или обычного *sql.DB
func BeginTx(ctx context.Context, db DBExecutor, opts *sql.TxOptions) (TxExecutor, error) {
	switch d := db.(type) {
	case TxBeginner:
		return d.BeginTx(ctx, opts)
	case *sql.DB:
		tx, err := d.BeginTx(ctx, opts)
		if err != nil {
			return nil, err
		}
		return &SqlTxWrapper{Tx: tx}, nil
	default:
		return nil, ErrUnsupportedDB
	}
}
