package catalog

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-DetailingService/internal/service/catalog/models"
)

type memoryCatalog struct {
	services map[uuid.UUID]*domain.Service
	err      error
}

func (m *memoryCatalog) Create(_ context.Context, service *domain.Service) (*domain.Service, error) {
	if m.err != nil {
		return nil, m.err
	}
	service.ID = uuid.New()
	m.services[service.ID] = service
	return service, nil
}

func (m *memoryCatalog) GetByID(_ context.Context, id uuid.UUID) (*domain.Service, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memoryCatalog) ListActive(ctx context.Context) ([]*domain.Service, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Service, 0, len(all))
	for _, s := range all {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (m *memoryCatalog) ListAll(_ context.Context) ([]*domain.Service, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.Service, 0, len(m.services))
	for _, s := range m.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryCatalog) Update(_ context.Context, service *domain.Service) (*domain.Service, error) {
	if _, ok := m.services[service.ID]; !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	cp := *service
	m.services[service.ID] = &cp
	return service, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func seed(m *memoryCatalog, name string, price float64, active bool) *domain.Service {
	s := &domain.Service{ID: uuid.New(), Name: name, Price: price, DurationMinutes: 60, IsActive: active}
	m.services[s.ID] = s
	return s
}

func ptr[T any](v T) *T { return &v }

func TestListActive_PriceOrder(t *testing.T) {
	repo := &memoryCatalog{services: map[uuid.UUID]*domain.Service{}}
	seed(repo, "Polimento", 250, true)
	seed(repo, "Lavagem Simples", 40, true)
	seed(repo, "Vitrificação", 900, false)

	resp, err := NewService(repo, nopLogger{}).ListActive(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Services, 2)
	assert.Equal(t, "Lavagem Simples", resp.Services[0].Name)
	assert.Equal(t, "Polimento", resp.Services[1].Name)
}

func TestGetActiveByID_HidesInactive(t *testing.T) {
	repo := &memoryCatalog{services: map[uuid.UUID]*domain.Service{}}
	inactive := seed(repo, "Vitrificação", 900, false)
	svc := NewService(repo, nopLogger{})

	_, err := svc.GetActiveByID(context.Background(), inactive.ID)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = svc.GetActiveByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCreate(t *testing.T) {
	repo := &memoryCatalog{services: map[uuid.UUID]*domain.Service{}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Create(context.Background(), &models.CreateServiceRequest{
		Name:            "  Higienização Interna ",
		Price:           180,
		DurationMinutes: 120,
	})
	require.NoError(t, err)

	assert.Equal(t, "Higienização Interna", resp.Name)
	assert.True(t, resp.IsActive)
	assert.Len(t, repo.services, 1)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateServiceRequest
	}{
		{name: "empty name", req: models.CreateServiceRequest{Name: "  ", Price: 10, DurationMinutes: 30}},
		{name: "negative price", req: models.CreateServiceRequest{Name: "X", Price: -1, DurationMinutes: 30}},
		{name: "zero duration", req: models.CreateServiceRequest{Name: "X", Price: 10}},
		{name: "too long", req: models.CreateServiceRequest{Name: "X", Price: 10, DurationMinutes: domain.MaxServiceDuration + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryCatalog{services: map[uuid.UUID]*domain.Service{}}

			_, err := NewService(repo, nopLogger{}).Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.services)
		})
	}
}

func TestUpdate_Partial(t *testing.T) {
	repo := &memoryCatalog{services: map[uuid.UUID]*domain.Service{}}
	existing := seed(repo, "Polimento", 250, true)
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Update(context.Background(), existing.ID, &models.UpdateServiceRequest{
		Price:    ptr(300.0),
		IsActive: ptr(false),
	})
	require.NoError(t, err)

	assert.Equal(t, "Polimento", resp.Name)
	assert.Equal(t, 300.0, resp.Price)
	assert.False(t, resp.IsActive)
	assert.False(t, repo.services[existing.ID].IsActive)
}

func TestUpdate_Errors(t *testing.T) {
	repo := &memoryCatalog{services: map[uuid.UUID]*domain.Service{}}
	existing := seed(repo, "Polimento", 250, true)
	svc := NewService(repo, nopLogger{})

	_, err := svc.Update(context.Background(), uuid.New(), &models.UpdateServiceRequest{})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = svc.Update(context.Background(), existing.ID, &models.UpdateServiceRequest{DurationMinutes: ptr(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 60, repo.services[existing.ID].DurationMinutes)

	repo.err = errors.New("connection refused")
	_, err = svc.ListAll(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}
