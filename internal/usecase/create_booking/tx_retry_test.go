package create_booking

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	blockedSlotRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/blocked_slot"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
)

// conflictingBlackouts первые failures чтений падают конфликтом сериализации, как это делает Postgres
type conflictingBlackouts struct {
	mu       sync.Mutex
	store    *memoryStore
	failures int
	calls    int
}

func (b *conflictingBlackouts) BlocksFor(ctx context.Context, date time.Time) ([]*domain.BlockedSlot, error) {
	b.mu.Lock()
	b.calls++
	fail := b.calls <= b.failures
	b.mu.Unlock()

	if fail {
		return nil, fmt.Errorf("%w: GetByDate - execute query: %w", blockedSlotRepo.ErrExecQuery, &pq.Error{Code: "40001"})
	}
	return b.store.BlocksFor(ctx, date)
}

type noopTx struct{}

func (noopTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (noopTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (noopTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }
func (noopTx) Commit() error                                                    { return nil }
func (noopTx) Rollback() error                                                  { return nil }

type countingBeginner struct {
	mu     sync.Mutex
	begins int
}

func (b *countingBeginner) BeginTx(context.Context, *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.begins++
	return noopTx{}, nil
}

func newSerializableFixture(t *testing.T, failures, maxRetries int) (*fixture, *conflictingBlackouts, *countingBeginner) {
	t.Helper()

	f := newFixture(t)
	blackouts := &conflictingBlackouts{store: f.store, failures: failures}
	db := &countingBeginner{}
	tm := txmanager.NewTransactionManager(db, txmanager.WithMaxRetries(maxRetries))

	policy := domain.NewCalendarPolicy(domain.DefaultWindowDays, mustRoster(), time.UTC)
	f.uc = NewUseCase(f.store, blackouts, f.catalog, tm, f.publisher, f.outcomes, policy, false, nopLogger{})
	f.uc.timeProvider = fixedClock{now: today}

	return f, blackouts, db
}

func TestExecute_SerializationFailureOnBlackoutReadIsRetried(t *testing.T) {
	f, blackouts, db := newSerializableFixture(t, 2, 3)

	resp, err := f.uc.Execute(context.Background(), f.request(day(9), "09:00"))

	require.NoError(t, err)
	assert.Equal(t, "09:00", resp.StartTime.String())
	assert.Equal(t, 3, blackouts.calls)
	assert.Equal(t, 3, db.begins)
	assert.Equal(t, 1, f.store.count())
	assert.Equal(t, 1, f.outcomes.counts[string(KindNone)])
}

func TestExecute_SerializationRetriesExhaustedIsTransient(t *testing.T) {
	f, blackouts, db := newSerializableFixture(t, 10, 3)

	resp, err := f.uc.Execute(context.Background(), f.request(day(9), "09:00"))

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, KindTransient, Classify(err))
	assert.Equal(t, 3, blackouts.calls)
	assert.Equal(t, 3, db.begins)
	assert.Zero(t, f.store.count())
	assert.Empty(t, f.publisher.booked)
}
