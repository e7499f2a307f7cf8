package cancel_booking

import (
	"github.com/m04kA/decor-rental-service/internal/service/bookings/models"
	"github.com/m04kA/decor-rental-service/pkg/ptr"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(actor models.Actor) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		Actor:              actor,
		CancellationReason: ptr.Value(r.CancellationReason, ""),
	}
}
