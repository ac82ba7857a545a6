package blackouts

import "errors"

var (
	// ErrBlockedSlotNotFound возвращается, когда блокировка не найдена
	ErrBlockedSlotNotFound = errors.New("blackouts: blocked slot not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("blackouts: invalid input data")

	// ErrInvalidTimeRange возвращается, когда у частичной блокировки start >= end
	ErrInvalidTimeRange = errors.New("blackouts: invalid time range")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("blackouts: internal error")
)
