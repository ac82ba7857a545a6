package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// Request модели

// CreateServiceRequest запрос на добавление услуги
type CreateServiceRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
	IsActive        *bool   `json:"isActive,omitempty"` // по умолчанию true
	ImageURL        *string `json:"imageUrl,omitempty"`
}

// UpdateServiceRequest запрос на изменение услуги
// Все поля опциональны - обновляются только переданные значения
type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	IsActive        *bool    `json:"isActive,omitempty"`
	ImageURL        *string  `json:"imageUrl,omitempty"`
}

// Response модели

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"durationMinutes"`
	IsActive        bool      `json:"isActive"`
	ImageURL        *string   `json:"imageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// Методы конвертации

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}

	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		IsActive:        s.IsActive,
		ImageURL:        s.ImageURL,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
	}

	for _, service := range services {
		if item := FromDomainService(service); item != nil {
			resp.Services = append(resp.Services, *item)
		}
	}

	return resp
}

// ToDomainService конвертирует CreateServiceRequest в domain модель
func (r *CreateServiceRequest) ToDomainService() *domain.Service {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	return &domain.Service{
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		DurationMinutes: r.DurationMinutes,
		IsActive:        isActive,
		ImageURL:        r.ImageURL,
	}
}

// ApplyToService применяет обновления к существующей услуге
// Обновляются только непустые (not nil) поля из request
func (r *UpdateServiceRequest) ApplyToService(service *domain.Service) {
	if r.Name != nil {
		service.Name = *r.Name
	}
	if r.Description != nil {
		service.Description = r.Description
	}
	if r.Price != nil {
		service.Price = *r.Price
	}
	if r.DurationMinutes != nil {
		service.DurationMinutes = *r.DurationMinutes
	}
	if r.IsActive != nil {
		service.IsActive = *r.IsActive
	}
	if r.ImageURL != nil {
		service.ImageURL = r.ImageURL
	}
}
