package get_item_bookings

import (
	"context"

	"github.com/m04kA/decor-rental-service/internal/service/bookings/models"
)

type BookingService interface {
	GetItemBookings(ctx context.Context, req *models.GetItemBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
