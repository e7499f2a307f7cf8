package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/decor-rental-service/internal/domain"
	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// Request модели

// CreateRulesRequest запрос на создание правил аренды
type CreateRulesRequest struct {
	ItemID             *int64          `json:"itemId,omitempty"`     // NULL = не для конкретного товара
	CategoryID         *int64          `json:"categoryId,omitempty"` // NULL = не для категории
	PickupWeekday      string          `json:"pickupWeekday"`        // "friday"
	ReturnWeekday      string          `json:"returnWeekday"`        // "sunday"
	DefaultRentalDays  int             `json:"defaultRentalDays"`
	TaxRatePercent     decimal.Decimal `json:"taxRatePercent"`
	DepositRatePercent decimal.Decimal `json:"depositRatePercent"`
	AdvanceBookingDays int             `json:"advanceBookingDays"` // 0 = без ограничений
}

// UpdateRulesRequest запрос на обновление правил аренды
// Все поля опциональны - обновляются только переданные значения
type UpdateRulesRequest struct {
	PickupWeekday      *string          `json:"pickupWeekday,omitempty"`
	ReturnWeekday      *string          `json:"returnWeekday,omitempty"`
	DefaultRentalDays  *int             `json:"defaultRentalDays,omitempty"`
	TaxRatePercent     *decimal.Decimal `json:"taxRatePercent,omitempty"`
	DepositRatePercent *decimal.Decimal `json:"depositRatePercent,omitempty"`
	AdvanceBookingDays *int             `json:"advanceBookingDays,omitempty"`
}

// Response модели

// RulesResponse ответ с правилами аренды
type RulesResponse struct {
	ID                 int64      `json:"id,omitempty"` // 0 для правил по умолчанию
	Scope              string     `json:"scope"`
	ItemID             *int64     `json:"itemId,omitempty"`
	CategoryID         *int64     `json:"categoryId,omitempty"`
	PickupWeekday      string     `json:"pickupWeekday"`
	ReturnWeekday      string     `json:"returnWeekday"`
	DefaultRentalDays  int        `json:"defaultRentalDays"`
	TaxRatePercent     string     `json:"taxRatePercent"`
	DepositRatePercent string     `json:"depositRatePercent"`
	AdvanceBookingDays int        `json:"advanceBookingDays"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// RulesListResponse ответ со списком правил
type RulesListResponse struct {
	Rules []RulesResponse `json:"rules"`
}

// Методы конвертации

// FromDomainRules конвертирует domain модель в DTO
func FromDomainRules(r *domain.RentalRules, scope string) *RulesResponse {
	if r == nil {
		return nil
	}

	resp := &RulesResponse{
		ID:                 r.ID,
		Scope:              scope,
		ItemID:             r.ItemID,
		CategoryID:         r.CategoryID,
		PickupWeekday:      rentalcalc.FormatWeekday(r.PickupWeekday),
		ReturnWeekday:      rentalcalc.FormatWeekday(r.ReturnWeekday),
		DefaultRentalDays:  r.DefaultRentalDays,
		TaxRatePercent:     r.TaxRatePercent.String(),
		DepositRatePercent: r.DepositRatePercent.String(),
		AdvanceBookingDays: r.AdvanceBookingDays,
	}

	// У правил по умолчанию нет строки в БД
	if r.ID != 0 {
		createdAt, updatedAt := r.CreatedAt, r.UpdatedAt
		resp.CreatedAt = &createdAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}

// FromDomainRulesList конвертирует список domain моделей в DTO
func FromDomainRulesList(list []*domain.RentalRules) *RulesListResponse {
	resp := &RulesListResponse{
		Rules: make([]RulesResponse, 0, len(list)),
	}

	for _, r := range list {
		if item := FromDomainRules(r, r.Scope()); item != nil {
			resp.Rules = append(resp.Rules, *item)
		}
	}

	return resp
}

// ToDomainRules конвертирует CreateRulesRequest в domain модель
func (r *CreateRulesRequest) ToDomainRules(pickup, ret time.Weekday) *domain.RentalRules {
	return &domain.RentalRules{
		ItemID:             r.ItemID,
		CategoryID:         r.CategoryID,
		PickupWeekday:      pickup,
		ReturnWeekday:      ret,
		DefaultRentalDays:  r.DefaultRentalDays,
		TaxRatePercent:     r.TaxRatePercent,
		DepositRatePercent: r.DepositRatePercent,
		AdvanceBookingDays: r.AdvanceBookingDays,
	}
}

// ApplyToRules применяет обновления к существующим правилам
// Обновляются только непустые (not nil) поля из request
func (r *UpdateRulesRequest) ApplyToRules(rules *domain.RentalRules) error {
	if r.PickupWeekday != nil {
		d, err := rentalcalc.ParseWeekday(*r.PickupWeekday)
		if err != nil {
			return err
		}
		rules.PickupWeekday = d
	}
	if r.ReturnWeekday != nil {
		d, err := rentalcalc.ParseWeekday(*r.ReturnWeekday)
		if err != nil {
			return err
		}
		rules.ReturnWeekday = d
	}
	if r.DefaultRentalDays != nil {
		rules.DefaultRentalDays = *r.DefaultRentalDays
	}
	if r.TaxRatePercent != nil {
		rules.TaxRatePercent = *r.TaxRatePercent
	}
	if r.DepositRatePercent != nil {
		rules.DepositRatePercent = *r.DepositRatePercent
	}
	if r.AdvanceBookingDays != nil {
		rules.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	return nil
}
