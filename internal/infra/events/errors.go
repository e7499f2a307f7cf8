package events

import "errors"

var (
	// ErrMarshal возвращается, если событие не удалось сериализовать
	ErrMarshal = errors.New("events.publisher: failed to marshal event")

	// ErrPublish возвращается при ошибке отправки в Kafka
	ErrPublish = errors.New("events.publisher: failed to publish event")
)
