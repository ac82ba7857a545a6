package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubExecutor struct{ name string }

func (s *stubExecutor) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (s *stubExecutor) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (s *stubExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

type stubTx struct{ stubExecutor }

func (s *stubTx) Commit() error   { return nil }
func (s *stubTx) Rollback() error { return nil }

func TestGetExecutor(t *testing.T) {
	pool := &stubExecutor{name: "pool"}
	tx := &stubTx{stubExecutor{name: "tx"}}

	assert.False(t, IsInTransaction(context.Background()))
	assert.Same(t, pool, GetExecutor(context.Background(), pool))

	ctx := WithTx(context.Background(), tx)
	assert.True(t, IsInTransaction(ctx))
	assert.Same(t, tx, GetExecutor(ctx, pool))
}

func TestOperation(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{query: "SELECT id FROM services", want: "select"},
		{query: "  insert INTO appointments (id) VALUES ($1)", want: "insert"},
		{query: "UPDATE appointments SET status = $1", want: "update"},
		{query: "DELETE FROM blocked_slots WHERE id = $1", want: "delete"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, operation(tt.query))
		})
	}
}
