package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
)

// serializationFailure код SQLSTATE 40001
const serializationFailure = "40001"

// deadlockDetected код SQLSTATE 40P01
const deadlockDetected = "40P01"

const defaultMaxRetries = 3

var (
	// ErrBeginTx ошибка открытия транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx ошибка фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrRetriesExhausted сериализуемая транзакция так и не прошла за отведённое число попыток
	ErrRetriesExhausted = errors.New("txmanager: serialization retries exhausted")
)

// TransactionManager выполняет функцию в транзакции, передавая её через контекст
type TransactionManager struct {
	db         dbmetrics.TxBeginner
	maxRetries int
}

// Option настройка TransactionManager
type Option func(*TransactionManager)

// WithMaxRetries задаёт число повторов при конфликте сериализации
func WithMaxRetries(n int) Option {
	return func(tm *TransactionManager) {
		if n > 0 {
			tm.maxRetries = n
		}
	}
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db dbmetrics.TxBeginner, opts ...Option) *TransactionManager {
	tm := &TransactionManager{db: db, maxRetries: defaultMaxRetries}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// Do выполняет fn в транзакции READ COMMITTED
func (tm *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (tm *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
// При 40001/40P01 транзакция повторяется целиком, fn должна быть идемпотентной до коммита
func (tm *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < tm.maxRetries; attempt++ {
		err = tm.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
		if !IsRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: %v", ErrRetriesExhausted, err)
}

func (tm *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
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
		return err
	}

	if err = tx.Commit(); err != nil {
		if IsRetryable(err) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	return nil
}

// IsRetryable проверяет, что ошибка — конфликт сериализации или дедлок
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == serializationFailure || pqErr.Code == deadlockDetected
	}
	return false
}
