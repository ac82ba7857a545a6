package blackouts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// BlockedSlotRepository интерфейс реестра блокировок
type BlockedSlotRepository interface {
	Create(ctx context.Context, block *domain.BlockedSlot) (*domain.BlockedSlot, error)
	GetByDate(ctx context.Context, date time.Time) ([]*domain.BlockedSlot, error)
	GetByRange(ctx context.Context, from, to time.Time) ([]*domain.BlockedSlot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
