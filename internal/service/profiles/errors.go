package profiles

import "errors"

var (
	// ErrProfileNotFound возвращается, когда профиль ещё не заполнен
	ErrProfileNotFound = errors.New("profiles: profile not found")

	// ErrInvalidPhone возвращается, когда телефон не распознан для региона
	ErrInvalidPhone = errors.New("profiles: invalid phone number for the region")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("profiles: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("profiles: internal error")
)
