package availabilityservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("availabilityservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("availabilityservice client: invalid response")

	// ErrRejected возвращается, когда сервис отклонил запрос (422) без известного кода причины
	ErrRejected = errors.New("availabilityservice client: request rejected")
)
