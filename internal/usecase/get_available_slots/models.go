package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	ServiceID uuid.UUID // ID услуги
	Date      time.Time // Дата (время игнорируется)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	ServiceID       uuid.UUID // ID услуги
	DurationMinutes int       // Длительность услуги (0, если дата вне окна)
	InWindow        bool      // Дата попадает в окно бронирования
	Slots           []Slot    // Свободные слоты в порядке расписания
}

// Slot свободный слот
type Slot struct {
	StartTime types.TimeString // Время начала (например, "10:00")
	EndTime   types.TimeString // Время окончания услуги, начатой в StartTime
}
