package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Request модель запроса на запись
type Request struct {
	UserID    uuid.UUID        // ID пользователя
	ServiceID uuid.UUID        // ID услуги
	Date      time.Time        // Дата записи (время игнорируется)
	StartTime types.TimeString // Время начала слота (например, "10:00")
	Notes     *string          // Заметки клиента (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ServiceID       uuid.UUID
	ServiceName     string
	ServicePrice    float64
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
