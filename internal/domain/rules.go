package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// RentalRules represents the rental window and pricing rules.
// Supports hierarchical configuration:
// 1. Item-specific (item_id)
// 2. Category-wide (category_id)
// 3. Global (NULL, NULL)
type RentalRules struct {
	ID                 int64
	ItemID             *int64 // NULL = not item-specific
	CategoryID         *int64 // NULL = not category-specific
	PickupWeekday      time.Weekday
	ReturnWeekday      time.Weekday
	DefaultRentalDays  int
	TaxRatePercent     decimal.Decimal
	DepositRatePercent decimal.Decimal
	AdvanceBookingDays int // 0 = unlimited
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsGlobal returns true if the rules apply to every item
func (r *RentalRules) IsGlobal() bool {
	return r.ItemID == nil && r.CategoryID == nil
}

// IsCategoryLevel returns true if the rules apply to a whole category
func (r *RentalRules) IsCategoryLevel() bool {
	return r.ItemID == nil && r.CategoryID != nil
}

// IsItemLevel returns true if the rules apply to a single item
func (r *RentalRules) IsItemLevel() bool {
	return r.ItemID != nil
}

// Scope names the hierarchy level for logs and responses
func (r *RentalRules) Scope() string {
	switch {
	case r.IsItemLevel():
		return RulesScopeItem
	case r.IsCategoryLevel():
		return RulesScopeCategory
	default:
		return RulesScopeGlobal
	}
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (r *RentalRules) HasAdvanceBookingLimit() bool {
	return r.AdvanceBookingDays > 0
}

// ToCalcRules converts stored percentages into calculator rules
func (r *RentalRules) ToCalcRules() rentalcalc.Rules {
	return rentalcalc.Rules{
		PickupWeekday:     r.PickupWeekday,
		ReturnWeekday:     r.ReturnWeekday,
		DefaultRentalDays: r.DefaultRentalDays,
		TaxRate:           rentalcalc.PercentToRate(r.TaxRatePercent),
		DepositRate:       rentalcalc.PercentToRate(r.DepositRatePercent),
	}
}

// RulesFromCalc builds unsaved global rules from calculator rules
func RulesFromCalc(rules rentalcalc.Rules, advanceBookingDays int) *RentalRules {
	return &RentalRules{
		PickupWeekday:      rules.PickupWeekday,
		ReturnWeekday:      rules.ReturnWeekday,
		DefaultRentalDays:  rules.DefaultRentalDays,
		TaxRatePercent:     rules.TaxRate.Shift(2),
		DepositRatePercent: rules.DepositRate.Shift(2),
		AdvanceBookingDays: advanceBookingDays,
	}
}

// MaxStartDate returns the last allowed pickup date, or false when unlimited
func (r *RentalRules) MaxStartDate(now time.Time) (time.Time, bool) {
	if !r.HasAdvanceBookingLimit() {
		return time.Time{}, false
	}
	return rentalcalc.DateOnly(now).AddDate(0, 0, r.AdvanceBookingDays), true
}
