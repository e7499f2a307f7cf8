// Package rentalcalc holds the rental window and pricing rules shared by the
// booking service and the preview client. It performs no I/O.
package rentalcalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// Reference business rule: pick up on Friday, return on Sunday.
const (
	DefaultPickupWeekday      = time.Friday
	DefaultReturnWeekday      = time.Sunday
	DefaultRentalDays         = 2
	DefaultTaxRatePercent     = 20
	DefaultDepositRatePercent = 30
)

// Rules parameterises the weekday constraint and the pricing percentages.
type Rules struct {
	PickupWeekday     time.Weekday
	ReturnWeekday     time.Weekday
	DefaultRentalDays int
	TaxRate           decimal.Decimal // fraction of subtotal, 0.20 = 20%
	DepositRate       decimal.Decimal // fraction of subtotal, 0.30 = 30%
}

// DefaultRules returns the reference Friday/Sunday rule with 20% tax and 30% deposit.
func DefaultRules() Rules {
	return Rules{
		PickupWeekday:     DefaultPickupWeekday,
		ReturnWeekday:     DefaultReturnWeekday,
		DefaultRentalDays: DefaultRentalDays,
		TaxRate:           PercentToRate(decimal.NewFromInt(DefaultTaxRatePercent)),
		DepositRate:       PercentToRate(decimal.NewFromInt(DefaultDepositRatePercent)),
	}
}

// PercentToRate converts 20 into 0.20.
func PercentToRate(percent decimal.Decimal) decimal.Decimal {
	return percent.Shift(-2)
}

// Validate checks that the rules are internally consistent: the default gap
// must lead from the pickup weekday to the return weekday.
func (r Rules) Validate() error {
	if r.PickupWeekday < time.Sunday || r.PickupWeekday > time.Saturday {
		return fmt.Errorf("%w: pickup weekday %d out of range", ErrInvalidRules, r.PickupWeekday)
	}
	if r.ReturnWeekday < time.Sunday || r.ReturnWeekday > time.Saturday {
		return fmt.Errorf("%w: return weekday %d out of range", ErrInvalidRules, r.ReturnWeekday)
	}
	if r.DefaultRentalDays < 1 {
		return fmt.Errorf("%w: default rental days must be positive", ErrInvalidRules)
	}
	if time.Weekday((int(r.PickupWeekday)+r.DefaultRentalDays)%7) != r.ReturnWeekday {
		return fmt.Errorf("%w: %s + %d days does not land on %s",
			ErrInvalidRules, r.PickupWeekday, r.DefaultRentalDays, r.ReturnWeekday)
	}
	if r.TaxRate.IsNegative() || r.DepositRate.IsNegative() {
		return fmt.Errorf("%w: rates must not be negative", ErrInvalidRules)
	}
	return nil
}

// DateOnly truncates t to midnight of its calendar day in t's location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

const secondsPerDay = 24 * 60 * 60

// daysBetween counts calendar days from start to end, independent of DST shifts.
func daysBetween(start, end time.Time) int {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int((e.Unix() - s.Unix()) / secondsPerDay)
}

// ParseWeekday accepts "friday", "Fri" or "5" (Sunday is 0).
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("weekday %d out of range", n)
		}
		return time.Weekday(n), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// FormatWeekday renders a weekday the way ParseWeekday reads it back.
func FormatWeekday(d time.Weekday) string {
	return strings.ToLower(d.String())
}
