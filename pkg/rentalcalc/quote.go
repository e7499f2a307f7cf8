package rentalcalc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BookingQuote is the price breakdown for a window, quantity and daily rate.
// Amounts are exact decimals; round only for display.
type BookingQuote struct {
	RentalDays int
	Quantity   int
	DailyRate  decimal.Decimal
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Deposit    decimal.Decimal // tracked apart from Total
	Total      decimal.Decimal // Subtotal + Tax
}

// ComputeQuote prices a validated window. It is a pure function of its inputs.
func (r Rules) ComputeQuote(window BookingWindow, dailyRate decimal.Decimal, quantity int) (BookingQuote, error) {
	if quantity < 1 {
		return BookingQuote{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if dailyRate.IsNegative() {
		return BookingQuote{}, fmt.Errorf("%w: got %s", ErrNegativeRate, dailyRate)
	}

	days := window.Days()
	if days < 1 {
		return BookingQuote{}, newValidationError(ErrEndNotAfterStart, FieldEndDate, window.EndDate)
	}

	subtotal := dailyRate.
		Mul(decimal.NewFromInt(int64(days))).
		Mul(decimal.NewFromInt(int64(quantity)))
	tax := subtotal.Mul(r.TaxRate)

	return BookingQuote{
		RentalDays: days,
		Quantity:   quantity,
		DailyRate:  dailyRate,
		Subtotal:   subtotal,
		Tax:        tax,
		Deposit:    subtotal.Mul(r.DepositRate),
		Total:      subtotal.Add(tax),
	}, nil
}

// FormatMoney renders an amount with two decimal places.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
