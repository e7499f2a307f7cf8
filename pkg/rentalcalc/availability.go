package rentalcalc

// Availability is the outcome of an availability check.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	Available
	Unavailable
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Err maps the outcome to its error kind; Available maps to nil.
func (a Availability) Err() error {
	switch a {
	case Available:
		return nil
	case Unavailable:
		return ErrUnavailable
	default:
		return ErrAvailabilityUnknown
	}
}

// FreeUnits returns how many copies remain after bookedUnits are taken.
func FreeUnits(item RentalItem, bookedUnits int) int {
	free := item.TotalUnits() - bookedUnits
	if free < 0 {
		return 0
	}
	return free
}

// AvailabilityFor decides whether quantity copies fit next to bookedUnits.
func AvailabilityFor(item RentalItem, bookedUnits, quantity int) Availability {
	if quantity <= FreeUnits(item, bookedUnits) {
		return Available
	}
	return Unavailable
}
