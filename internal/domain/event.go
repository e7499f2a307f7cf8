package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingEvent is published to the order/checkout side on every booking change
type BookingEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	BookingID  int64     `json:"bookingId"`
	OrderID    string    `json:"orderId"`
	ItemID     int64     `json:"itemId"`
	UserID     int64     `json:"userId"`
	StartDate  string    `json:"startDate"`
	EndDate    string    `json:"endDate"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	Total      string    `json:"total"`
	Deposit    string    `json:"deposit"`
}

// NewBookingEvent builds an event snapshot of the booking
func NewBookingEvent(eventType string, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: at.UTC(),
		BookingID:  b.ID,
		OrderID:    b.OrderID,
		ItemID:     b.ItemID,
		UserID:     b.UserID,
		StartDate:  b.StartDate.Format(DateFormat),
		EndDate:    b.EndDate.Format(DateFormat),
		Quantity:   b.Quantity,
		Status:     string(b.Status),
		Total:      b.Total.StringFixed(2),
		Deposit:    b.Deposit.StringFixed(2),
	}
}
