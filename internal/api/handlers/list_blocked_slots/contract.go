package list_blocked_slots

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/service/blackouts/models"
)

type BlackoutService interface {
	ListRange(ctx context.Context, req *models.ListBlockedSlotsRequest) (*models.BlockedSlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
