package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

var today = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	uc        *UseCase
	store     *memoryStore
	catalog   *fakeCatalog
	tx        *passthroughTx
	publisher *recordingPublisher
	outcomes  *recordingOutcomes
	service   *domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	service := &domain.Service{
		ID:              uuid.New(),
		Name:            "Lavagem Simples",
		Price:           40,
		DurationMinutes: 30,
		IsActive:        true,
	}

	f := &fixture{
		store:     &memoryStore{},
		catalog:   &fakeCatalog{services: map[uuid.UUID]*domain.Service{service.ID: service}},
		tx:        &passthroughTx{},
		publisher: &recordingPublisher{},
		outcomes:  &recordingOutcomes{},
		service:   service,
	}

	policy := domain.NewCalendarPolicy(domain.DefaultWindowDays, mustRoster(), time.UTC)
	f.uc = NewUseCase(f.store, f.store, f.catalog, f.tx, f.publisher, f.outcomes, policy, false, nopLogger{})
	f.uc.timeProvider = fixedClock{now: today}

	return f
}

func (f *fixture) request(date time.Time, start string) *Request {
	return &Request{
		UserID:    uuid.New(),
		ServiceID: f.service.ID,
		Date:      date,
		StartTime: types.MustTimeString(start),
	}
}

func day(offset int) time.Time {
	return time.Date(today.Year(), today.Month(), today.Day()+offset, 0, 0, 0, 0, time.UTC)
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)
	notes := "SUV preto"
	req := f.request(day(3), "09:00")
	req.Notes = &notes

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, types.TimeString("09:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("09:30"), resp.EndTime)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, "Lavagem Simples", resp.ServiceName)
	assert.Equal(t, &notes, resp.Notes)
	assert.Equal(t, 1, f.store.count())

	require.Len(t, f.publisher.booked, 1)
	assert.Equal(t, resp.ID, f.publisher.booked[0].ID)
	assert.Equal(t, 1, f.outcomes.counts["ok"])
}

func TestExecute_WindowBoundary(t *testing.T) {
	tests := []struct {
		name    string
		offset  int
		wantErr error
	}{
		{name: "yesterday rejected", offset: -1, wantErr: ErrDateNotBookable},
		{name: "today accepted", offset: 0},
		{name: "today+30 accepted", offset: 30},
		{name: "today+31 rejected", offset: 31, wantErr: ErrDateNotBookable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.uc.Execute(context.Background(), f.request(day(tt.offset), "10:00"))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, KindValidation, Classify(err))
				assert.Zero(t, f.store.reads, "rejected dates must not reach storage")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExecute_TodayUsesBusinessTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	f := newFixture(t)
	f.uc.policy = domain.NewCalendarPolicy(domain.DefaultWindowDays, mustRoster(), loc)
	// 01:30 UTC on June 2nd is still June 1st in Sao Paulo
	f.uc.timeProvider = fixedClock{now: time.Date(2025, 6, 2, 1, 30, 0, 0, time.UTC)}

	_, err = f.uc.Execute(context.Background(), f.request(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "17:00"))
	assert.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), f.request(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), "17:00"))
	assert.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), f.request(time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), "17:00"))
	assert.ErrorIs(t, err, ErrDateNotBookable)
}

func TestExecute_InactiveService(t *testing.T) {
	f := newFixture(t)
	f.service.IsActive = false

	_, err := f.uc.Execute(context.Background(), f.request(day(1), "10:00"))

	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Zero(t, f.store.reads)
	assert.Equal(t, 1, f.outcomes.counts["validation"])
}

func TestExecute_InvalidSlot(t *testing.T) {
	for _, start := range []string{"12:00", "08:30", "18:00"} {
		t.Run(start, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.uc.Execute(context.Background(), f.request(day(1), start))
			assert.ErrorIs(t, err, ErrInvalidSlot)
		})
	}
}

func TestExecute_RejectionOrder(t *testing.T) {
	t.Run("window checked before service state", func(t *testing.T) {
		f := newFixture(t)
		f.service.IsActive = false

		_, err := f.uc.Execute(context.Background(), f.request(day(-1), "12:00"))
		assert.ErrorIs(t, err, ErrDateNotBookable)
	})

	t.Run("service state checked before slot", func(t *testing.T) {
		f := newFixture(t)
		f.service.IsActive = false

		_, err := f.uc.Execute(context.Background(), f.request(day(1), "12:00"))
		assert.ErrorIs(t, err, ErrServiceUnavailable)
	})

	t.Run("slot checked before availability", func(t *testing.T) {
		f := newFixture(t)
		f.store.blocks = []*domain.BlockedSlot{{BlockedDate: day(1), IsFullDay: true}}

		_, err := f.uc.Execute(context.Background(), f.request(day(1), "12:00"))
		assert.ErrorIs(t, err, ErrInvalidSlot)
	})
}

func TestExecute_SlotTaken(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), f.request(day(2), "09:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), f.request(day(2), "09:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, KindConflict, Classify(err))
	assert.Equal(t, 1, f.store.count())

	// другой слот того же дня свободен
	_, err = f.uc.Execute(context.Background(), f.request(day(2), "10:00"))
	assert.NoError(t, err)
}

func TestExecute_BlockedSlots(t *testing.T) {
	f := newFixture(t)
	f.store.blocks = []*domain.BlockedSlot{
		{BlockedDate: day(4), StartTime: "14:00", EndTime: "15:00"},
		{BlockedDate: day(5), IsFullDay: true},
	}

	_, err := f.uc.Execute(context.Background(), f.request(day(4), "14:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = f.uc.Execute(context.Background(), f.request(day(4), "15:00"))
	assert.NoError(t, err, "end of a partial block is not blocked")

	_, err = f.uc.Execute(context.Background(), f.request(day(5), "08:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_CancellationFreesSlot(t *testing.T) {
	f := newFixture(t)

	first, err := f.uc.Execute(context.Background(), f.request(day(1), "11:00"))
	require.NoError(t, err)

	f.store.setStatus(first.ID, domain.StatusCancelled)

	second, err := f.uc.Execute(context.Background(), f.request(day(1), "11:00"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestExecute_ConcurrentBookingsSameSlot(t *testing.T) {
	f := newFixture(t)
	const attempts = 20

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), f.request(day(7), "13:00"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotTaken):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, f.store.count())
	assert.Equal(t, attempts-1, f.outcomes.counts["conflict"])
}

func TestExecute_UniqueViolationIsConflict(t *testing.T) {
	f := newFixture(t)
	f.store.createErr = appointmentRepo.ErrSlotNotAvailable

	_, err := f.uc.Execute(context.Background(), f.request(day(1), "09:00"))

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, KindConflict, Classify(err))
}

func TestExecute_StorageFailureIsTransient(t *testing.T) {
	f := newFixture(t)
	f.store.readErr = errStorage

	_, err := f.uc.Execute(context.Background(), f.request(day(1), "09:00"))

	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, errStorage)
	assert.Equal(t, KindTransient, Classify(err))
	assert.Empty(t, f.publisher.booked)
}

func TestExecute_TransactionManagerFailure(t *testing.T) {
	f := newFixture(t)
	f.tx.err = errors.New("txmanager: serialization retries exhausted")

	_, err := f.uc.Execute(context.Background(), f.request(day(1), "09:00"))

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 0, f.store.count())
}

func TestExecute_UnknownServiceIsFatal(t *testing.T) {
	f := newFixture(t)
	req := f.request(day(1), "09:00")
	req.ServiceID = uuid.New()

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.Equal(t, KindFatal, Classify(err))
}

func TestExecute_ServiceRunningPastMidnight(t *testing.T) {
	f := newFixture(t)
	f.service.DurationMinutes = 480

	_, err := f.uc.Execute(context.Background(), f.request(day(1), "17:00"))
	assert.ErrorIs(t, err, ErrInvalidSlot)

	resp, err := f.uc.Execute(context.Background(), f.request(day(1), "08:00"))
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("16:00"), resp.EndTime)
}

func TestExecute_PublishFailureKeepsBooking(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")

	resp, err := f.uc.Execute(context.Background(), f.request(day(1), "09:00"))

	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, 1, f.store.count())
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "missing user", req: &Request{ServiceID: f.service.ID, Date: day(1), StartTime: "09:00"}},
		{name: "missing service", req: &Request{UserID: uuid.New(), Date: day(1), StartTime: "09:00"}},
		{name: "missing date", req: &Request{UserID: uuid.New(), ServiceID: f.service.ID, StartTime: "09:00"}},
		{name: "missing time", req: &Request{UserID: uuid.New(), ServiceID: f.service.ID, Date: day(1)}},
		{name: "malformed time", req: &Request{UserID: uuid.New(), ServiceID: f.service.ID, Date: day(1), StartTime: "9h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindNone, Classify(nil))
	assert.Equal(t, KindValidation, Classify(ErrDateNotBookable))
	assert.Equal(t, KindValidation, Classify(ErrInvalidSlot))
	assert.Equal(t, KindConflict, Classify(ErrSlotTaken))
	assert.Equal(t, KindFatal, Classify(ErrServiceNotFound))
	assert.Equal(t, KindTransient, Classify(ErrInternal))
	assert.Equal(t, KindTransient, Classify(context.DeadlineExceeded))
}
