package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
)

type fakeTx struct {
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

// fakeBeginner выдаёт транзакции, первые failCommits из которых падают на Commit с commitErr
type fakeBeginner struct {
	failCommits int
	commitErr   error
	beginErr    error
	opts        []*sql.TxOptions
	txs         []*fakeTx
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	tx := &fakeTx{}
	if len(b.txs) < b.failCommits {
		tx.commitErr = b.commitErr
	}
	b.opts = append(b.opts, opts)
	b.txs = append(b.txs, tx)
	return tx, nil
}

func TestTransactionManager_DoSerializable_RetriesOnCommit(t *testing.T) {
	tests := []struct {
		name        string
		commitErr   error
		failCommits int
		maxRetries  int
		wantErr     error
		wantAttempt int
	}{
		{name: "first attempt succeeds", failCommits: 0, maxRetries: 3, wantAttempt: 1},
		{name: "serialization failure then success", commitErr: &pq.Error{Code: "40001"}, failCommits: 2, maxRetries: 3, wantAttempt: 3},
		{name: "deadlock then success", commitErr: &pq.Error{Code: "40P01"}, failCommits: 1, maxRetries: 3, wantAttempt: 2},
		{name: "retries exhausted", commitErr: &pq.Error{Code: "40001"}, failCommits: 5, maxRetries: 3, wantErr: ErrRetriesExhausted, wantAttempt: 3},
		{name: "non retryable commit error", commitErr: errors.New("connection lost"), failCommits: 1, maxRetries: 3, wantErr: ErrCommitTx, wantAttempt: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeBeginner{failCommits: tt.failCommits, commitErr: tt.commitErr}
			tm := NewTransactionManager(db, WithMaxRetries(tt.maxRetries))

			calls := 0
			err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
				calls++
				assert.True(t, dbmetrics.IsInTransaction(ctx))
				return nil
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.True(t, db.txs[len(db.txs)-1].committed)
			}

			assert.Equal(t, tt.wantAttempt, calls)
			require.Len(t, db.txs, tt.wantAttempt)
			for _, opts := range db.opts {
				assert.Equal(t, sql.LevelSerializable, opts.Isolation)
			}
			for _, tx := range db.txs[:len(db.txs)-1] {
				assert.True(t, tx.rolledBack, "failed attempt must be rolled back")
			}
		})
	}
}

func TestTransactionManager_DoSerializable_RetriesWhenFnSeesSerializationFailure(t *testing.T) {
	db := &fakeBeginner{}
	tm := NewTransactionManager(db, WithMaxRetries(3))

	errReadBlocks := errors.New("read blocked slots")
	calls := 0
	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return fmt.Errorf("%w: %w", errReadBlocks, &pq.Error{Code: "40001"})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, db.txs, 2)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)
	assert.True(t, db.txs[1].committed)
}

func TestTransactionManager_DoSerializable_DoesNotRetryBusinessError(t *testing.T) {
	db := &fakeBeginner{}
	tm := NewTransactionManager(db, WithMaxRetries(3))

	errSlotTaken := errors.New("slot taken")
	calls := 0
	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return errSlotTaken
	})

	require.ErrorIs(t, err, errSlotTaken)
	assert.Equal(t, 1, calls)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)
}

func TestTransactionManager_DoSerializable_StopsOnCancelledContext(t *testing.T) {
	db := &fakeBeginner{failCommits: 5, commitErr: &pq.Error{Code: "40001"}}
	tm := NewTransactionManager(db, WithMaxRetries(5))

	ctx, cancel := context.WithCancel(context.Background())
	err := tm.DoSerializable(ctx, func(context.Context) error {
		cancel()
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, db.txs, 1)
}

func TestTransactionManager_NestedCallReusesOuterTransaction(t *testing.T) {
	db := &fakeBeginner{}
	tm := NewTransactionManager(db)

	var outerTx, innerTx dbmetrics.DBExecutor
	err := tm.Do(context.Background(), func(ctx context.Context) error {
		outerTx = dbmetrics.GetExecutor(ctx, nil)
		return tm.DoSerializable(ctx, func(ctx context.Context) error {
			innerTx = dbmetrics.GetExecutor(ctx, nil)
			return nil
		})
	})

	require.NoError(t, err)
	require.Len(t, db.txs, 1)
	assert.Same(t, outerTx, innerTx)
	assert.Equal(t, sql.LevelReadCommitted, db.opts[0].Isolation)
	assert.True(t, db.txs[0].committed)
}

func TestTransactionManager_BeginError(t *testing.T) {
	db := &fakeBeginner{beginErr: errors.New("too many connections")}
	tm := NewTransactionManager(db)

	err := tm.DoSerializable(context.Background(), func(context.Context) error {
		t.Fatal("fn must not run without a transaction")
		return nil
	})

	require.ErrorIs(t, err, ErrBeginTx)
}

func TestTransactionManager_RollbackOnPanic(t *testing.T) {
	db := &fakeBeginner{}
	tm := NewTransactionManager(db)

	assert.Panics(t, func() {
		_ = tm.Do(context.Background(), func(context.Context) error {
			panic("boom")
		})
	})

	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].rolledBack)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, want: true},
		{name: "deadlock", err: &pq.Error{Code: "40P01"}, want: true},
		{name: "wrapped serialization failure", err: fmt.Errorf("query: %w", &pq.Error{Code: "40001"}), want: true},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
