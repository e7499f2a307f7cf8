package rentalcalc

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidPickupWeekday is returned when the start date is not on the pickup weekday.
	ErrInvalidPickupWeekday = errors.New("rentalcalc: start date is not on the pickup weekday")

	// ErrStartDateInPast is returned when the start date is earlier than today.
	ErrStartDateInPast = errors.New("rentalcalc: start date is in the past")

	// ErrInvalidReturnWeekday is returned when the end date is not on the return weekday.
	ErrInvalidReturnWeekday = errors.New("rentalcalc: end date is not on the return weekday")

	// ErrEndNotAfterStart is returned when the end date does not strictly follow the start date.
	ErrEndNotAfterStart = errors.New("rentalcalc: end date is not after start date")

	// ErrItemNotRentable is returned for catalog items that do not permit rental.
	ErrItemNotRentable = errors.New("rentalcalc: item is not rentable")

	// ErrUnavailable is returned when an availability check found a conflicting booking.
	ErrUnavailable = errors.New("rentalcalc: item is not available for the selected dates")

	// ErrAvailabilityUnknown is returned when the availability check could not be completed.
	ErrAvailabilityUnknown = errors.New("rentalcalc: availability could not be determined")

	// ErrInvalidQuantity is returned when quantity is less than one.
	ErrInvalidQuantity = errors.New("rentalcalc: quantity must be at least 1")

	// ErrNegativeRate is returned when the daily rate is negative.
	ErrNegativeRate = errors.New("rentalcalc: daily rate must not be negative")

	// ErrInvalidRules is returned by Rules.Validate.
	ErrInvalidRules = errors.New("rentalcalc: invalid rental rules")
)

// Field names reported by ValidationError.
const (
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"
	FieldItem      = "itemId"
)

// ValidationError identifies exactly which booking constraint failed.
// It matches its Kind sentinel with errors.Is.
type ValidationError struct {
	Kind  error
	Field string
	Date  time.Time
}

func (e *ValidationError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("%v (%s)", e.Kind, e.Field)
	}
	return fmt.Sprintf("%v (%s=%s)", e.Kind, e.Field, e.Date.Format(DateFormat))
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// IsValidationError reports whether err is one of the window/item validation failures.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func newValidationError(kind error, field string, date time.Time) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Date: date}
}

// reasons are the stable wire codes of the validation kinds.
var reasons = map[error]string{
	ErrInvalidPickupWeekday: "invalid_pickup_weekday",
	ErrStartDateInPast:      "start_date_in_past",
	ErrInvalidReturnWeekday: "invalid_return_weekday",
	ErrEndNotAfterStart:     "end_not_after_start",
	ErrItemNotRentable:      "item_not_rentable",
}

// Reason returns the wire code for a validation kind, or "" when kind has none.
func Reason(kind error) string {
	return reasons[kind]
}

// KindForReason is the inverse of Reason.
func KindForReason(reason string) (error, bool) {
	for kind, r := range reasons {
		if r == reason {
			return kind, true
		}
	}
	return nil, false
}
