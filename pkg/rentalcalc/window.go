package rentalcalc

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentalItem is the catalog view of a rentable product. Read-only here.
type RentalItem struct {
	ID         int64
	DailyRate  decimal.Decimal
	IsRentable bool
	Units      int // copies in stock; values below 1 mean a single copy
}

// TotalUnits returns the number of copies that can be rented at once.
func (i RentalItem) TotalUnits() int {
	if i.Units < 1 {
		return 1
	}
	return i.Units
}

// BookingWindow is a validated (start, end) pair. Obtain it from ValidateWindow.
type BookingWindow struct {
	StartDate time.Time
	EndDate   time.Time
}

// Days returns the number of calendar days the window spans.
func (w BookingWindow) Days() int {
	return daysBetween(w.StartDate, w.EndDate)
}

// Overlaps reports whether the half-open range [start, end) intersects the window.
// Touching ranges (one ends where the other starts) do not overlap.
func (w BookingWindow) Overlaps(start, end time.Time) bool {
	return DateOnly(start).Before(w.EndDate) && w.StartDate.Before(DateOnly(end))
}

// DeriveDefaultEndDate suggests an end date for a start on the pickup weekday.
// It returns false when no default can be inferred.
func (r Rules) DeriveDefaultEndDate(start time.Time) (time.Time, bool) {
	if start.IsZero() || start.Weekday() != r.PickupWeekday {
		return time.Time{}, false
	}
	return DateOnly(start).AddDate(0, 0, r.DefaultRentalDays), true
}

// ValidateWindow checks a (start, end) pair against the rules, in order:
// pickup weekday, start not in the past, end after start, return weekday.
// An end on or before the start is reported as ErrEndNotAfterStart whatever
// its weekday. The first failing constraint is returned as a *ValidationError.
func (r Rules) ValidateWindow(start, end, now time.Time) (BookingWindow, error) {
	start = DateOnly(start)
	end = DateOnly(end)

	if start.IsZero() || start.Weekday() != r.PickupWeekday {
		return BookingWindow{}, newValidationError(ErrInvalidPickupWeekday, FieldStartDate, start)
	}

	today := DateOnly(now.In(start.Location()))
	if start.Before(today) {
		return BookingWindow{}, newValidationError(ErrStartDateInPast, FieldStartDate, start)
	}

	if !end.After(start) {
		return BookingWindow{}, newValidationError(ErrEndNotAfterStart, FieldEndDate, end)
	}

	if end.Weekday() != r.ReturnWeekday {
		return BookingWindow{}, newValidationError(ErrInvalidReturnWeekday, FieldEndDate, end)
	}

	return BookingWindow{StartDate: start, EndDate: end}, nil
}

// ValidateItem rejects items that do not permit rental, regardless of dates.
func ValidateItem(item RentalItem) error {
	if !item.IsRentable {
		return newValidationError(ErrItemNotRentable, FieldItem, time.Time{})
	}
	return nil
}
