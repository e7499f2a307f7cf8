package models

import (
	"errors"
	"time"

	"github.com/m04kA/decor-rental-service/internal/domain"
	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Actor пользователь, выполняющий запрос
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Actor              Actor  `json:"-"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Actor  Actor  `json:"-"`
	Status string `json:"status"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetItemBookingsRequest запрос на получение бронирований товара
type GetItemBookingsRequest struct {
	Actor           Actor      `json:"-"`
	ItemID          int64      `json:"itemId"`
	From            *time.Time `json:"from,omitempty"`            // Начало периода (опционально)
	To              *time.Time `json:"to,omitempty"`              // Конец периода, не включая (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отмененные, истекшие и возвращенные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetItemBookingsRequest) ToDomainFilter() (domain.ItemBookingsFilter, error) {
	filter := domain.ItemBookingsFilter{
		ItemID:          r.ItemID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64  `json:"id"`
	OrderID    string `json:"orderId"`
	UserID     int64  `json:"userId"`
	ItemID     int64  `json:"itemId"`
	CategoryID *int64 `json:"categoryId,omitempty"`
	StartDate  string `json:"startDate"` // "2026-10-23"
	EndDate    string `json:"endDate"`   // "2026-10-25"
	Quantity   int    `json:"quantity"`
	Status     string `json:"status"`

	// Денормализованные данные
	ItemName   string  `json:"itemName"`
	RentalDays int     `json:"rentalDays"`
	DailyRate  string  `json:"dailyRate"`
	Subtotal   string  `json:"subtotal"`
	Tax        string  `json:"tax"`
	Deposit    string  `json:"deposit"`
	Total      string  `json:"total"`
	TotalDue   string  `json:"totalDue"` // total + deposit
	Notes      *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		OrderID:            b.OrderID,
		UserID:             b.UserID,
		ItemID:             b.ItemID,
		CategoryID:         b.CategoryID,
		StartDate:          b.StartDate.Format(domain.DateFormat),
		EndDate:            b.EndDate.Format(domain.DateFormat),
		Quantity:           b.Quantity,
		Status:             string(b.Status),
		ItemName:           b.ItemName,
		RentalDays:         b.RentalDays,
		DailyRate:          rentalcalc.FormatMoney(b.DailyRate),
		Subtotal:           rentalcalc.FormatMoney(b.Subtotal),
		Tax:                rentalcalc.FormatMoney(b.Tax),
		Deposit:            rentalcalc.FormatMoney(b.Deposit),
		Total:              rentalcalc.FormatMoney(b.Total),
		TotalDue:           rentalcalc.FormatMoney(b.Total.Add(b.Deposit)),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s, ok := domain.ParseBookingStatus(status)
	if !ok {
		return "", ErrInvalidStatus
	}
	return s, nil
}
