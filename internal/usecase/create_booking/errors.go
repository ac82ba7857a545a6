package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrDateNotBookable возвращается, когда дата вне окна бронирования (сегодня .. сегодня+N)
	ErrDateNotBookable = errors.New("create_booking: date is not bookable")

	// ErrServiceUnavailable возвращается, когда услуга выключена
	ErrServiceUnavailable = errors.New("create_booking: service is not active")

	// ErrInvalidSlot возвращается, когда время не из расписания или услуга не успевает до полуночи
	ErrInvalidSlot = errors.New("create_booking: invalid time slot")

	// ErrSlotTaken возвращается, когда слот занят или заблокирован на момент коммита
	ErrSlotTaken = errors.New("create_booking: slot is already taken")

	// ErrServiceNotFound возвращается при бронировании несуществующей услуги
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// Kind класс ошибки бронирования, по нему клиент выбирает реакцию
type Kind string

const (
	// KindNone успешное бронирование
	KindNone Kind = "ok"

	// KindValidation исправимая пользователем ошибка, повтор без изменений бесполезен
	KindValidation Kind = "validation"

	// KindConflict запрос корректен, но слот заняли раньше; нужно перечитать слоты
	KindConflict Kind = "conflict"

	// KindTransient сбой сети или БД, операцию можно повторить целиком
	KindTransient Kind = "transient"

	// KindFatal нарушена ссылочная целостность (например, нет услуги), это баг вызывающей стороны
	KindFatal Kind = "fatal"
)

// Classify возвращает класс ошибки, которую вернул Execute
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrSlotTaken):
		return KindConflict
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDateNotBookable),
		errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, ErrInvalidSlot):
		return KindValidation
	case errors.Is(err, ErrServiceNotFound):
		return KindFatal
	default:
		return KindTransient
	}
}
