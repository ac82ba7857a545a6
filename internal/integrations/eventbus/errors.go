package eventbus

import "errors"

var (
	// ErrMarshal возвращается при ошибке сериализации события
	ErrMarshal = errors.New("eventbus: failed to marshal event")

	// ErrPublish возвращается, когда брокер не принял сообщение
	ErrPublish = errors.New("eventbus: failed to publish event")
)
