package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds contact and vehicle details of a user, used for display only
type Profile struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	FullName     string
	Phone        *string
	Email        *string
	VehicleModel *string
	VehicleColor *string
	VehiclePlate *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role of a user in the system
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)
