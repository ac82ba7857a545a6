package create_booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	createBooking "github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID       string  `json:"serviceId"`
	AppointmentDate string  `json:"appointmentDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"`       // "10:00"
	Notes           *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	ServiceID       uuid.UUID `json:"serviceId"`
	ServiceName     string    `json:"serviceName"`
	ServicePrice    float64   `json:"servicePrice"`
	AppointmentDate string    `json:"appointmentDate"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       string    `json:"createdAt"`
	UpdatedAt       string    `json:"updatedAt"`
}

// fieldError ошибка разбора конкретного поля запроса
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.field, e.err)
}

func (e *fieldError) Unwrap() error {
	return e.err
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// userID берётся из контекста аутентификации, а не из тела
func (r *CreateBookingRequest) ToUseCaseRequest(userID uuid.UUID) (*createBooking.Request, error) {
	serviceID, err := uuid.Parse(r.ServiceID)
	if err != nil {
		return nil, &fieldError{field: "serviceId", err: err}
	}

	date, err := time.Parse(domain.DateFormat, r.AppointmentDate)
	if err != nil {
		return nil, &fieldError{field: "appointmentDate", err: err}
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, &fieldError{field: "startTime", err: err}
	}

	return &createBooking.Request{
		UserID:    userID,
		ServiceID: serviceID,
		Date:      date,
		StartTime: startTime,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		ServiceID:       resp.ServiceID,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		AppointmentDate: resp.AppointmentDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
