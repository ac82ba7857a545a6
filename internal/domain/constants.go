package domain

// Default configuration values
const (
	DefaultWindowDays   = 30
	DefaultTimezone     = "America/Sao_Paulo"
	DefaultMaxTxRetries = 3
)

// DefaultTimeSlots fixed daily roster of hour-aligned start times with a lunch gap
var DefaultTimeSlots = []string{
	"08:00", "09:00", "10:00", "11:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

// Business validation constants
const (
	MaxWindowDays         = 365
	MaxNotesLength        = 500
	MaxReasonLength       = 255
	MaxServiceNameLength  = 120
	MaxServiceDuration    = 600 // 10 hours
	MaxProfileFieldLength = 120
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that occupy a slot
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses statuses that no longer constrain availability
var InactiveStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
}
