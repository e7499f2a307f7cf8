package create_booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/decor-rental-service/internal/domain"
	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.OrderID) == "" {
		return fmt.Errorf("%w: orderId is required", ErrInvalidInput)
	}
	if len(req.OrderID) > domain.MaxOrderIDLength {
		return fmt.Errorf("%w: orderId is longer than %d", ErrInvalidInput, domain.MaxOrderIDLength)
	}

	if req.ItemID <= 0 {
		return fmt.Errorf("%w: itemId must be positive", ErrInvalidInput)
	}

	if req.Quantity < 1 || req.Quantity > domain.DefaultMaxQuantity {
		return fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalidInput, domain.DefaultMaxQuantity)
	}

	// Проверяем, что даты указаны; их сочетание проверяет калькулятор
	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}
	if req.EndDate.IsZero() {
		return fmt.Errorf("%w: endDate is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes is longer than %d", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateAdvanceLimit проверяет, что дата выдачи не превышает ограничение advanceBookingDays
func validateAdvanceLimit(rules *domain.RentalRules, window rentalcalc.BookingWindow, now time.Time) error {
	// Если advanceBookingDays = 0, нет ограничений на дату
	maxStart, limited := rules.MaxStartDate(now)
	if !limited {
		return nil
	}

	if window.StartDate.After(maxStart) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, rules.AdvanceBookingDays)
	}

	return nil
}

// rejectReason метка причины отказа для метрик
func rejectReason(err error) string {
	switch {
	case rentalcalc.IsValidationError(err):
		return "validation"
	case errors.Is(err, rentalcalc.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrDateTooFarInFuture):
		return "too_far"
	case errors.Is(err, ErrDuplicateOrderLine):
		return "duplicate"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrItemNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
