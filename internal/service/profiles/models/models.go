package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// UpsertProfileRequest запрос на заполнение профиля
type UpsertProfileRequest struct {
	FullName     string  `json:"fullName"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty"`
	VehicleModel *string `json:"vehicleModel,omitempty"`
	VehicleColor *string `json:"vehicleColor,omitempty"`
	VehiclePlate *string `json:"vehiclePlate,omitempty"`
}

// ProfileResponse ответ с данными профиля
type ProfileResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	FullName     string    `json:"fullName"`
	Phone        *string   `json:"phone,omitempty"` // E.164
	Email        *string   `json:"email,omitempty"`
	VehicleModel *string   `json:"vehicleModel,omitempty"`
	VehicleColor *string   `json:"vehicleColor,omitempty"`
	VehiclePlate *string   `json:"vehiclePlate,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfileListResponse ответ со списком клиентов
type ProfileListResponse struct {
	Clients []ProfileResponse `json:"clients"`
}

// FromDomainProfile конвертирует domain модель в DTO
func FromDomainProfile(p *domain.Profile) *ProfileResponse {
	if p == nil {
		return nil
	}

	return &ProfileResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		FullName:     p.FullName,
		Phone:        p.Phone,
		Email:        p.Email,
		VehicleModel: p.VehicleModel,
		VehicleColor: p.VehicleColor,
		VehiclePlate: p.VehiclePlate,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// FromDomainProfileList конвертирует список domain моделей в DTO
func FromDomainProfileList(profiles []*domain.Profile) *ProfileListResponse {
	resp := &ProfileListResponse{
		Clients: make([]ProfileResponse, 0, len(profiles)),
	}

	for _, p := range profiles {
		if item := FromDomainProfile(p); item != nil {
			resp.Clients = append(resp.Clients, *item)
		}
	}

	return resp
}
