package get_available_slots

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
	catalogRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

type stubCatalog struct {
	services map[uuid.UUID]*domain.Service
	err      error
}

func (c *stubCatalog) GetByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	if c.err != nil {
		return nil, c.err
	}
	s, ok := c.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

type stubDay struct {
	mu           sync.Mutex
	appointments []*domain.Appointment
	blocks       []*domain.BlockedSlot
	apptErr      error
	blockErr     error
	reads        int
}

func (d *stubDay) GetActiveByDate(_ context.Context, _ time.Time) ([]*domain.Appointment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reads++
	return d.appointments, d.apptErr
}

func (d *stubDay) BlocksFor(_ context.Context, _ time.Time) ([]*domain.BlockedSlot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reads++
	return d.blocks, d.blockErr
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	now         = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	bookingDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
)

func newUseCase(t *testing.T, service *domain.Service, day *stubDay, overlapping bool) *UseCase {
	t.Helper()

	roster, err := domain.ParseRoster(domain.DefaultTimeSlots)
	require.NoError(t, err)

	catalog := &stubCatalog{services: map[uuid.UUID]*domain.Service{service.ID: service}}
	policy := domain.NewCalendarPolicy(domain.DefaultWindowDays, roster, time.UTC)

	uc := NewUseCase(catalog, day, day, policy, overlapping, nopLogger{})
	uc.timeProvider = fixedClock{now: now}
	return uc
}

func lavagemSimples() *domain.Service {
	return &domain.Service{
		ID:              uuid.New(),
		Name:            "Lavagem Simples",
		Price:           40,
		DurationMinutes: 30,
		IsActive:        true,
	}
}

func startTimes(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime.String())
	}
	return out
}

func TestExecute_ConfirmedAppointmentAndPartialBlock(t *testing.T) {
	service := lavagemSimples()
	day := &stubDay{
		appointments: []*domain.Appointment{
			{StartTime: "09:00", EndTime: "09:30", Status: domain.StatusConfirmed},
		},
		blocks: []*domain.BlockedSlot{
			{BlockedDate: bookingDate, StartTime: "14:00", EndTime: "15:00", IsFullDay: false},
		},
	}
	uc := newUseCase(t, service, day, false)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: service.ID, Date: bookingDate})
	require.NoError(t, err)

	assert.True(t, resp.InWindow)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, []string{"08:00", "10:00", "11:00", "13:00", "15:00", "16:00", "17:00"}, startTimes(resp.Slots))
	assert.Equal(t, types.TimeString("08:30"), resp.Slots[0].EndTime)
}

func TestExecute_CancelledAndCompletedDoNotOccupy(t *testing.T) {
	service := lavagemSimples()
	day := &stubDay{
		appointments: []*domain.Appointment{
			{StartTime: "08:00", Status: domain.StatusCancelled},
			{StartTime: "10:00", Status: domain.StatusCompleted},
			{StartTime: "11:00", Status: domain.StatusPending},
		},
	}
	uc := newUseCase(t, service, day, false)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: service.ID, Date: bookingDate})
	require.NoError(t, err)

	assert.Equal(t, []string{"08:00", "09:00", "10:00", "13:00", "14:00", "15:00", "16:00", "17:00"}, startTimes(resp.Slots))
}

func TestExecute_FullDayBlockDominates(t *testing.T) {
	service := lavagemSimples()
	day := &stubDay{
		blocks: []*domain.BlockedSlot{
			{BlockedDate: bookingDate, StartTime: "14:00", EndTime: "15:00"},
			{BlockedDate: bookingDate, IsFullDay: true},
		},
	}
	uc := newUseCase(t, service, day, false)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: service.ID, Date: bookingDate})
	require.NoError(t, err)

	assert.True(t, resp.InWindow)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PartialBlockIsHalfOpen(t *testing.T) {
	service := lavagemSimples()
	day := &stubDay{
		blocks: []*domain.BlockedSlot{
			{BlockedDate: bookingDate, StartTime: "10:00", EndTime: "13:00"},
		},
	}
	uc := newUseCase(t, service, day, false)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: service.ID, Date: bookingDate})
	require.NoError(t, err)

	assert.Equal(t, []string{"08:00", "09:00", "13:00", "14:00", "15:00", "16:00", "17:00"}, startTimes(resp.Slots))
}

func TestExecute_RepeatedReadsAreStable(t *testing.T) {
	service := lavagemSimples()
	day := &stubDay{
		appointments: []*domain.Appointment{{StartTime: "16:00", Status: domain.StatusPending}},
	}
	uc := newUseCase(t, service, day, false)
	req := &Request{ServiceID: service.ID, Date: bookingDate}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_OutsideWindow(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
	}{
		{name: "past date", date: now.AddDate(0, 0, -1)},
		{name: "beyond window", date: now.AddDate(0, 0, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := lavagemSimples()
			day := &stubDay{}
			uc := newUseCase(t, service, day, false)

			resp, err := uc.Execute(context.Background(), &Request{ServiceID: service.ID, Date: tt.date})
			require.NoError(t, err)

			assert.False(t, resp.InWindow)
			assert.Empty(t, resp.Slots)
			assert.Zero(t, day.reads)
		})
	}
}

func TestExecute_WindowEdgesAreInclusive(t *testing.T) {
	service := lavagemSimples()
	uc := newUseCase(t, service, &stubDay{}, false)

	for _, date := range []time.Time{now, now.AddDate(0, 0, 30)} {
		resp, err := uc.Execute(context.Background(), &Request{ServiceID: service.ID, Date: date})
		require.NoError(t, err)
		assert.True(t, resp.InWindow)
		assert.Len(t, resp.Slots, len(domain.DefaultTimeSlots))
	}
}

func TestExecute_ServiceErrors(t *testing.T) {
	t.Run("inactive", func(t *testing.T) {
		service := lavagemSimples()
		service.IsActive = false
		day := &stubDay{}
		uc := newUseCase(t, service, day, false)

		_, err := uc.Execute(context.Background(), &Request{ServiceID: service.ID, Date: bookingDate})
		assert.ErrorIs(t, err, ErrServiceUnavailable)
		assert.Zero(t, day.reads)
	})

	t.Run("unknown", func(t *testing.T) {
		uc := newUseCase(t, lavagemSimples(), &stubDay{}, false)

		_, err := uc.Execute(context.Background(), &Request{ServiceID: uuid.New(), Date: bookingDate})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("catalog failure", func(t *testing.T) {
		service := lavagemSimples()
		uc := newUseCase(t, service, &stubDay{}, false)
		uc.serviceRepo = &stubCatalog{err: errors.New("timeout")}

		_, err := uc.Execute(context.Background(), &Request{ServiceID: service.ID, Date: bookingDate})
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestExecute_StorageFailure(t *testing.T) {
	service := lavagemSimples()
	uc := newUseCase(t, service, &stubDay{blockErr: errors.New("connection refused")}, false)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: service.ID, Date: bookingDate})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newUseCase(t, lavagemSimples(), &stubDay{}, false)

	_, err := uc.Execute(context.Background(), &Request{Date: bookingDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: uuid.New()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_LongServiceSkipsMidnightCrossing(t *testing.T) {
	service := lavagemSimples()
	service.DurationMinutes = 420 // 17:00 + 7h = 00:00
	uc := newUseCase(t, service, &stubDay{}, false)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: service.ID, Date: bookingDate})
	require.NoError(t, err)

	assert.Equal(t, []string{"08:00", "09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}, startTimes(resp.Slots))
	assert.Equal(t, types.TimeString("23:00"), resp.Slots[len(resp.Slots)-1].EndTime)
}

func TestExecute_BlockOverlapping(t *testing.T) {
	service := lavagemSimples()
	service.DurationMinutes = 120
	day := &stubDay{
		appointments: []*domain.Appointment{
			{StartTime: "11:00", EndTime: "13:00", Status: domain.StatusConfirmed},
		},
	}

	t.Run("disabled", func(t *testing.T) {
		uc := newUseCase(t, service, day, false)

		resp, err := uc.Execute(context.Background(), &Request{ServiceID: service.ID, Date: bookingDate})
		require.NoError(t, err)
		assert.Equal(t, []string{"08:00", "09:00", "10:00", "13:00", "14:00", "15:00", "16:00", "17:00"}, startTimes(resp.Slots))
	})

	t.Run("enabled", func(t *testing.T) {
		uc := newUseCase(t, service, day, true)

		resp, err := uc.Execute(context.Background(), &Request{ServiceID: service.ID, Date: bookingDate})
		require.NoError(t, err)
		// 10:00-12:00 overlaps 11:00-13:00, 13:00 starts exactly when it ends
		assert.Equal(t, []string{"08:00", "09:00", "13:00", "14:00", "15:00", "16:00", "17:00"}, startTimes(resp.Slots))
	})
}
