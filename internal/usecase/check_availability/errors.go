package check_availability

import "errors"

var (
	// ErrItemNotFound возвращается, когда товара нет в каталоге
	ErrItemNotFound = errors.New("check_availability: item not found")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("check_availability: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_availability: invalid input data")
)
