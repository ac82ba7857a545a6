package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-DetailingService/internal/service/catalog/models"
)

// Service сервис каталога услуг
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// ListActive активные услуги от дешёвых к дорогим
// Публичный метод - доступен всем
func (s *Service) ListActive(ctx context.Context) (*models.ServiceListResponse, error) {
	services, err := s.serviceRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("ListActive: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// GetActiveByID получает услугу для публичной витрины
// Выключенная услуга для клиентов не существует
func (s *Service) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.ServiceResponse, error) {
	service, err := s.get(ctx, "GetActiveByID", id)
	if err != nil {
		return nil, err
	}

	if !service.IsActive {
		s.logger.Warn("GetActiveByID: service id=%s is not active", id)
		return nil, ErrServiceNotFound
	}

	return models.FromDomainService(service), nil
}

// ListAll все услуги по имени (для администратора)
func (s *Service) ListAll(ctx context.Context) (*models.ServiceListResponse, error) {
	services, err := s.serviceRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("ListAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAll - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// Create добавляет услугу (для администратора)
func (s *Service) Create(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service name=%q, duration=%d", req.Name, req.DurationMinutes)

	service := req.ToDomainService()
	service.Name = strings.TrimSpace(service.Name)

	if err := validateServiceData(service); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, service)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created service id=%s", created.ID)
	return models.FromDomainService(created), nil
}

// Update частично обновляет услугу (для администратора)
// Выключение услуги не трогает существующие записи, но новые на неё не принимаются
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%s", id)

	// 1. Получаем текущую услугу
	service, err := s.get(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	// 2. Применяем изменения к копии и валидируем
	updated := *service
	req.ApplyToService(&updated)
	updated.Name = strings.TrimSpace(updated.Name)

	if err := validateServiceData(&updated); err != nil {
		s.logger.Warn("Update: validation failed for service id=%s: %v", id, err)
		return nil, err
	}

	// 3. Сохраняем
	saved, err := s.serviceRepo.Update(ctx, &updated)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("Update: service id=%s disappeared during update", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: updated service id=%s, active=%t", id, saved.IsActive)
	return models.FromDomainService(saved), nil
}

func (s *Service) get(ctx context.Context, op string, id uuid.UUID) (*domain.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("%s: service id=%s not found", op, id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("%s: repository error for service id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return service, nil
}

// validateServiceData валидирует параметры услуги
func validateServiceData(service *domain.Service) error {
	if service.Name == "" || len(service.Name) > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: name must be between 1 and %d characters", ErrInvalidInput, domain.MaxServiceNameLength)
	}

	if service.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if service.DurationMinutes <= 0 || service.DurationMinutes > domain.MaxServiceDuration {
		return fmt.Errorf("%w: durationMinutes must be between 1 and %d", ErrInvalidInput, domain.MaxServiceDuration)
	}

	return nil
}
