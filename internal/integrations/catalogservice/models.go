package catalogservice

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// Item модель товара из CatalogService
type Item struct {
	ID         int64           `json:"id"`
	CategoryID *int64          `json:"categoryId,omitempty"`
	Name       string          `json:"name"`
	DailyRate  decimal.Decimal `json:"dailyRate"`
	IsRentable bool            `json:"isRentable"`
	Units      int             `json:"units"` // количество экземпляров, 0 = один
}

// RentalItem представление товара для калькулятора аренды
func (i *Item) RentalItem() rentalcalc.RentalItem {
	return rentalcalc.RentalItem{
		ID:         i.ID,
		DailyRate:  i.DailyRate,
		IsRentable: i.IsRentable,
		Units:      i.Units,
	}
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
