package eventbus

import "time"

const (
	EventAppointmentBooked        = "appointment.booked"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

// AppointmentEvent полезная нагрузка события о записи
type AppointmentEvent struct {
	EventID         string    `json:"eventId"`
	EventType       string    `json:"eventType"`
	AppointmentID   string    `json:"appointmentId"`
	UserID          string    `json:"userId"`
	ServiceID       string    `json:"serviceId"`
	AppointmentDate string    `json:"appointmentDate"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	Status          string    `json:"status"`
	PreviousStatus  string    `json:"previousStatus,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}
