package domain

import (
	"time"

	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// ItemAvailability is the unit count of an item for a window
type ItemAvailability struct {
	Item        rentalcalc.RentalItem
	Window      rentalcalc.BookingWindow
	BookedUnits int
	Requested   int
}

// NewItemAvailability counts the units the active bookings hold during window
func NewItemAvailability(item rentalcalc.RentalItem, window rentalcalc.BookingWindow, bookings []*Booking, requested int) *ItemAvailability {
	return &ItemAvailability{
		Item:        item,
		Window:      window,
		BookedUnits: BookedUnitsFor(bookings, window.StartDate, window.EndDate),
		Requested:   requested,
	}
}

// TotalUnits returns the number of copies of the item
func (a *ItemAvailability) TotalUnits() int {
	return a.Item.TotalUnits()
}

// FreeUnits returns how many units remain for the window
func (a *ItemAvailability) FreeUnits() int {
	return rentalcalc.FreeUnits(a.Item, a.BookedUnits)
}

// Outcome decides whether the requested quantity fits
func (a *ItemAvailability) Outcome() rentalcalc.Availability {
	return rentalcalc.AvailabilityFor(a.Item, a.BookedUnits, a.Requested)
}

// BookedUnitsFor sums the quantity of active bookings that overlap [start, end)
func BookedUnitsFor(bookings []*Booking, start, end time.Time) int {
	window := rentalcalc.BookingWindow{StartDate: rentalcalc.DateOnly(start), EndDate: rentalcalc.DateOnly(end)}
	units := 0
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		// Строгие неравенства: бронь, заканчивающаяся в день начала другой, не пересекается
		if window.Overlaps(b.StartDate, b.EndDate) {
			units += b.Quantity
		}
	}
	return units
}
