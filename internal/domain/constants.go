package domain

import "github.com/m04kA/decor-rental-service/pkg/rentalcalc"

// Business validation constants
const (
	MinRentalDays               = 1
	MaxRentalDays               = 28
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 730 // 2 years
	MaxRatePercent              = 100
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxOrderIDLength            = 64
	DefaultMaxQuantity          = 100
)

// DateFormat is the wire format for calendar dates (YYYY-MM-DD)
const DateFormat = rentalcalc.DateFormat

// Rules hierarchy levels
const (
	RulesScopeItem     = "item"
	RulesScopeCategory = "category"
	RulesScopeGlobal   = "global"
	RulesScopeDefault  = "default" // no row in the database, config values
)

// Booking event types
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

// ActiveStatuses список статусов, занимающих единицы товара
// Используется при подсчете доступности
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusPickedUp,
}

// InactiveStatuses список статусов, освободивших единицы товара
var InactiveStatuses = []BookingStatus{
	StatusReturned,
	StatusCancelled,
	StatusExpired,
}
