package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ErrInvalidTransition is returned when a status change is not allowed by the lifecycle
var ErrInvalidTransition = errors.New("domain: invalid appointment status transition")

// ErrUnknownStatus is returned when parsing a string that is not a known status
var ErrUnknownStatus = errors.New("domain: unknown appointment status")

// transitions lists the legal targets for every status; terminal states have none
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: nil,
	StatusCancelled: nil,
}

// ParseAppointmentStatus converts a raw string into a known status
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// IsActive returns true if the status occupies its slot
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal returns true if no further transitions are possible
func (s AppointmentStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether s -> next is a legal transition
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a customer's booking of one service at one slot on one date
type Appointment struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ServiceID       uuid.UUID
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Status          AppointmentStatus
	Notes           *string

	// Filled by listing queries that join services
	ServiceName  string
	ServicePrice float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment blocks its slot
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// CanBeCancelled returns true if the appointment can move to cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.CanTransitionTo(StatusCancelled)
}

// TransitionTo validates and applies a status change
func (a *Appointment) TransitionTo(next AppointmentStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, next)
	}
	a.Status = next
	return nil
}

// AppointmentsFilter filter for staff appointment listings
type AppointmentsFilter struct {
	StartDate       *time.Time         // inclusive, nil = unbounded
	EndDate         *time.Time         // inclusive, nil = unbounded
	Status          *AppointmentStatus // exact status, overrides IncludeInactive
	IncludeInactive bool               // include completed and cancelled
}
