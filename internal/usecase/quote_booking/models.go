package quote_booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на расчет стоимости
type Request struct {
	ItemID    int64      // ID товара
	StartDate time.Time  // Дата выдачи
	EndDate   *time.Time // Дата возврата; если не указана, выводится из правил
	Quantity  int        // Количество экземпляров
}

// Response модель ответа с расчетом стоимости
type Response struct {
	ItemID     int64
	ItemName   string
	StartDate  time.Time
	EndDate    time.Time
	EndDerived bool   // Дата возврата подставлена по правилам
	RulesScope string // item, category, global или default

	RentalDays int
	Quantity   int
	DailyRate  decimal.Decimal
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Deposit    decimal.Decimal // Возвратный залог, не входит в Total
	Total      decimal.Decimal
	TotalDue   decimal.Decimal // Total + Deposit
}
