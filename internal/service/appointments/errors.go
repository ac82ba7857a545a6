package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("appointments: access denied")

	// ErrCannotCancel возвращается, когда запись уже завершена или отменена
	ErrCannotCancel = errors.New("appointments: appointment cannot be cancelled")

	// ErrInvalidTransition возвращается при переходе статуса, запрещённом жизненным циклом
	ErrInvalidTransition = errors.New("appointments: invalid status transition")

	// ErrStatusChanged возвращается, когда статус успели изменить параллельно
	ErrStatusChanged = errors.New("appointments: status changed concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
