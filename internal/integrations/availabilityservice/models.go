package availabilityservice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// AvailabilityResponse ответ GET /api/v1/items/{itemId}/availability
type AvailabilityResponse struct {
	ItemID     int64  `json:"itemId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Quantity   int    `json:"quantity"`
	Available  bool   `json:"available"`
	FreeUnits  int    `json:"freeUnits"`
	TotalUnits int    `json:"totalUnits"`
}

// RulesResponse ответ GET /api/v1/items/{itemId}/rules
type RulesResponse struct {
	Scope              string `json:"scope"`
	PickupWeekday      string `json:"pickupWeekday"`
	ReturnWeekday      string `json:"returnWeekday"`
	DefaultRentalDays  int    `json:"defaultRentalDays"`
	TaxRatePercent     string `json:"taxRatePercent"`
	DepositRatePercent string `json:"depositRatePercent"`
	AdvanceBookingDays int    `json:"advanceBookingDays"`
}

// CalcRules переводит ответ сервиса в правила калькулятора
func (r *RulesResponse) CalcRules() (rentalcalc.Rules, error) {
	pickup, err := rentalcalc.ParseWeekday(r.PickupWeekday)
	if err != nil {
		return rentalcalc.Rules{}, fmt.Errorf("%w: pickup weekday: %v", ErrInvalidResponse, err)
	}
	ret, err := rentalcalc.ParseWeekday(r.ReturnWeekday)
	if err != nil {
		return rentalcalc.Rules{}, fmt.Errorf("%w: return weekday: %v", ErrInvalidResponse, err)
	}
	tax, err := decimal.NewFromString(r.TaxRatePercent)
	if err != nil {
		return rentalcalc.Rules{}, fmt.Errorf("%w: tax rate: %v", ErrInvalidResponse, err)
	}
	deposit, err := decimal.NewFromString(r.DepositRatePercent)
	if err != nil {
		return rentalcalc.Rules{}, fmt.Errorf("%w: deposit rate: %v", ErrInvalidResponse, err)
	}

	rules := rentalcalc.Rules{
		PickupWeekday:     pickup,
		ReturnWeekday:     ret,
		DefaultRentalDays: r.DefaultRentalDays,
		TaxRate:           rentalcalc.PercentToRate(tax),
		DepositRate:       rentalcalc.PercentToRate(deposit),
	}
	if err := rules.Validate(); err != nil {
		return rentalcalc.Rules{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return rules, nil
}

// errorResponse тело ответа сервиса с ошибкой
type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field"`
	Reason  string `json:"reason"`
}
