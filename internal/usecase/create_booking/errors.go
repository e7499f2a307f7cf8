package create_booking

import "errors"

var (
	// ErrItemNotFound возвращается, когда товара нет в каталоге
	ErrItemNotFound = errors.New("create_booking: item not found")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrDuplicateOrderLine возвращается, когда для строки заказа бронь уже создана
	ErrDuplicateOrderLine = errors.New("create_booking: booking for this order line already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
