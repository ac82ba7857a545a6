package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// ServiceRepository интерфейс репозитория каталога
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	ListActive(ctx context.Context) ([]*domain.Service, error)
	ListAll(ctx context.Context) ([]*domain.Service, error)
	Update(ctx context.Context, service *domain.Service) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
