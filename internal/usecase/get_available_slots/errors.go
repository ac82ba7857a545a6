package get_available_slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуги с таким ID нет в каталоге
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrServiceUnavailable возвращается, когда услуга выключена (is_active = false)
	ErrServiceUnavailable = errors.New("get_available_slots: service is not active")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
