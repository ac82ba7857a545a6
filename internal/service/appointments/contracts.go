package appointments

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.AppointmentStatus) error
}

// RoleChecker интерфейс проверки ролей пользователя
type RoleChecker interface {
	HasRole(ctx context.Context, userID uuid.UUID, role domain.Role) (bool, error)
}

// EventPublisher интерфейс публикации событий о записях
type EventPublisher interface {
	AppointmentStatusChanged(ctx context.Context, appt *domain.Appointment, previous domain.AppointmentStatus) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
