package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Service is an offerable detailing service from the catalog
type Service struct {
	ID              uuid.UUID
	Name            string
	Description     *string
	Price           float64
	DurationMinutes int
	IsActive        bool
	ImageURL        *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EndTimeFor returns the end of this service when started at start.
// Services that would run past midnight yield types.ErrDayOverflow.
func (s *Service) EndTimeFor(start types.TimeString) (types.TimeString, error) {
	return start.AddMinutes(s.DurationMinutes)
}
