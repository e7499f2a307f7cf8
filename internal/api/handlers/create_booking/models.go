package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/decor-rental-service/internal/api/handlers"
	"github.com/m04kA/decor-rental-service/internal/domain"
	createBooking "github.com/m04kA/decor-rental-service/internal/usecase/create_booking"
	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	OrderID   string  `json:"orderId"`
	ItemID    int64   `json:"itemId"`
	StartDate string  `json:"startDate"` // "2026-10-23"
	EndDate   string  `json:"endDate"`   // "2026-10-25"
	Quantity  int     `json:"quantity"`
	Notes     *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64   `json:"id"`
	OrderID    string  `json:"orderId"`
	UserID     int64   `json:"userId"`
	ItemID     int64   `json:"itemId"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Quantity   int     `json:"quantity"`
	Status     string  `json:"status"`
	ItemName   string  `json:"itemName"`
	RentalDays int     `json:"rentalDays"`
	DailyRate  string  `json:"dailyRate"`
	Subtotal   string  `json:"subtotal"`
	Tax        string  `json:"tax"`
	Deposit    string  `json:"deposit"`
	Total      string  `json:"total"`
	TotalDue   string  `json:"totalDue"`
	Notes      *string `json:"notes,omitempty"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	startDate, err := handlers.ParseDate(r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}

	endDate, err := handlers.ParseDate(r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}

	return &createBooking.Request{
		UserID:    userID,
		OrderID:   r.OrderID,
		ItemID:    r.ItemID,
		StartDate: startDate,
		EndDate:   endDate,
		Quantity:  r.Quantity,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:         resp.ID,
		OrderID:    resp.OrderID,
		UserID:     resp.UserID,
		ItemID:     resp.ItemID,
		StartDate:  resp.StartDate.Format(domain.DateFormat),
		EndDate:    resp.EndDate.Format(domain.DateFormat),
		Quantity:   resp.Quantity,
		Status:     resp.Status,
		ItemName:   resp.ItemName,
		RentalDays: resp.RentalDays,
		DailyRate:  rentalcalc.FormatMoney(resp.DailyRate),
		Subtotal:   rentalcalc.FormatMoney(resp.Subtotal),
		Tax:        rentalcalc.FormatMoney(resp.Tax),
		Deposit:    rentalcalc.FormatMoney(resp.Deposit),
		Total:      rentalcalc.FormatMoney(resp.Total),
		TotalDue:   rentalcalc.FormatMoney(resp.Total.Add(resp.Deposit)),
		Notes:      resp.Notes,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}
