package create_booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// memoryStore хранилище записей с тем же уникальным ограничением, что и индекс в БД
type memoryStore struct {
	mu           sync.Mutex
	appointments []*domain.Appointment
	blocks       []*domain.BlockedSlot
	readErr      error
	createErr    error
	reads        int
}

func (s *memoryStore) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return nil, s.createErr
	}

	for _, existing := range s.appointments {
		if existing.IsActive() && sameDay(existing.AppointmentDate, appt.AppointmentDate) &&
			existing.StartTime.Equal(appt.StartTime) {
			return nil, appointmentRepo.ErrSlotNotAvailable
		}
	}

	stored := *appt
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.appointments = append(s.appointments, &stored)

	out := stored
	return &out, nil
}

func (s *memoryStore) GetActiveByDate(_ context.Context, date time.Time) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}

	out := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if a.IsActive() && sameDay(a.AppointmentDate, date) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memoryStore) BlocksFor(_ context.Context, date time.Time) ([]*domain.BlockedSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.BlockedSlot, 0)
	for _, b := range s.blocks {
		if sameDay(b.BlockedDate, date) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memoryStore) setStatus(id uuid.UUID, status domain.AppointmentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.appointments {
		if a.ID == id {
			a.Status = status
		}
	}
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appointments)
}

type fakeCatalog struct {
	services map[uuid.UUID]*domain.Service
	err      error
}

func (c *fakeCatalog) GetByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	if c.err != nil {
		return nil, c.err
	}
	s, ok := c.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

// passthroughTx выполняет функцию без реальной транзакции
type passthroughTx struct {
	err error
}

func (tx *passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx.err != nil {
		return tx.err
	}
	return fn(ctx)
}

type recordingPublisher struct {
	mu     sync.Mutex
	booked []*domain.Appointment
	err    error
}

func (p *recordingPublisher) AppointmentBooked(_ context.Context, appt *domain.Appointment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.booked = append(p.booked, appt)
	return p.err
}

type recordingOutcomes struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *recordingOutcomes) ObserveBooking(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = make(map[string]int)
	}
	o.counts[outcome]++
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

var errStorage = errors.New("connection reset by peer")

func mustRoster() []types.TimeString {
	roster, err := domain.ParseRoster(domain.DefaultTimeSlots)
	if err != nil {
		panic(err)
	}
	return roster
}
