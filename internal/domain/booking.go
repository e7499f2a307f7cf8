package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// BookingStatus represents the status of a rental booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"   // hold created at checkout, awaiting order confirmation
	StatusConfirmed BookingStatus = "confirmed" // order paid
	StatusPickedUp  BookingStatus = "picked_up"
	StatusReturned  BookingStatus = "returned"
	StatusCancelled BookingStatus = "cancelled"
	StatusExpired   BookingStatus = "expired" // hold timed out before confirmation
)

// Booking is a reservation of Quantity units of an item for [StartDate, EndDate).
type Booking struct {
	ID         int64
	OrderID    string
	UserID     int64
	ItemID     int64
	CategoryID *int64
	StartDate  time.Time
	EndDate    time.Time
	Quantity   int
	Status     BookingStatus

	// Denormalized quote for history
	ItemName   string
	RentalDays int
	DailyRate  decimal.Decimal
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Deposit    decimal.Decimal
	Total      decimal.Decimal
	Notes      *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its units
func (b *Booking) IsActive() bool {
	for _, s := range ActiveStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanTransitionTo reports whether the lifecycle allows moving to next
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled || next == StatusExpired
	case StatusConfirmed:
		return next == StatusPickedUp || next == StatusCancelled
	case StatusPickedUp:
		return next == StatusReturned
	default:
		return false
	}
}

// Window returns the booked period
func (b *Booking) Window() rentalcalc.BookingWindow {
	return rentalcalc.BookingWindow{StartDate: b.StartDate, EndDate: b.EndDate}
}

// ApplyQuote copies the price breakdown into the booking
func (b *Booking) ApplyQuote(q rentalcalc.BookingQuote) {
	b.RentalDays = q.RentalDays
	b.Quantity = q.Quantity
	b.DailyRate = q.DailyRate
	b.Subtotal = q.Subtotal
	b.Tax = q.Tax
	b.Deposit = q.Deposit
	b.Total = q.Total
}

// ParseBookingStatus validates a status string
func ParseBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(s)
	switch status {
	case StatusPending, StatusConfirmed, StatusPickedUp, StatusReturned, StatusCancelled, StatusExpired:
		return status, true
	default:
		return "", false
	}
}

// ItemBookingsFilter фильтр для получения бронирований товара
type ItemBookingsFilter struct {
	ItemID          int64          // Обязательный параметр
	From            *time.Time     // Бронирования, заканчивающиеся после From (опционально)
	To              *time.Time     // Бронирования, начинающиеся до To (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные, истекшие и завершенные
}

// UserBookingsFilter фильтр для получения бронирований пользователя
type UserBookingsFilter struct {
	UserID int64
	Status *BookingStatus
}
