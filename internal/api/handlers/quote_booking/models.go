package quote_booking

import (
	"github.com/m04kA/decor-rental-service/internal/domain"
	quoteBooking "github.com/m04kA/decor-rental-service/internal/usecase/quote_booking"
	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// QuoteResponse HTTP response model
// Суммы передаются строками с двумя знаками после запятой
type QuoteResponse struct {
	ItemID     int64  `json:"itemId"`
	ItemName   string `json:"itemName"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	EndDerived bool   `json:"endDerived"`
	RulesScope string `json:"rulesScope"`
	RentalDays int    `json:"rentalDays"`
	Quantity   int    `json:"quantity"`
	DailyRate  string `json:"dailyRate"`
	Subtotal   string `json:"subtotal"`
	Tax        string `json:"tax"`
	Deposit    string `json:"deposit"`
	Total      string `json:"total"`
	TotalDue   string `json:"totalDue"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *quoteBooking.Response) *QuoteResponse {
	return &QuoteResponse{
		ItemID:     resp.ItemID,
		ItemName:   resp.ItemName,
		StartDate:  resp.StartDate.Format(domain.DateFormat),
		EndDate:    resp.EndDate.Format(domain.DateFormat),
		EndDerived: resp.EndDerived,
		RulesScope: resp.RulesScope,
		RentalDays: resp.RentalDays,
		Quantity:   resp.Quantity,
		DailyRate:  rentalcalc.FormatMoney(resp.DailyRate),
		Subtotal:   rentalcalc.FormatMoney(resp.Subtotal),
		Tax:        rentalcalc.FormatMoney(resp.Tax),
		Deposit:    rentalcalc.FormatMoney(resp.Deposit),
		Total:      rentalcalc.FormatMoney(resp.Total),
		TotalDue:   rentalcalc.FormatMoney(resp.TotalDue),
	}
}
