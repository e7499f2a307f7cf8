package check_availability

import (
	"github.com/m04kA/decor-rental-service/internal/domain"
	"github.com/m04kA/decor-rental-service/internal/integrations/availabilityservice"
	checkAvailability "github.com/m04kA/decor-rental-service/internal/usecase/check_availability"
)

// FromUseCaseResponse конвертирует ответ use case в HTTP response
// Формат совпадает с тем, что читает клиент availabilityservice
func FromUseCaseResponse(resp *checkAvailability.Response) *availabilityservice.AvailabilityResponse {
	return &availabilityservice.AvailabilityResponse{
		ItemID:     resp.ItemID,
		StartDate:  resp.StartDate.Format(domain.DateFormat),
		EndDate:    resp.EndDate.Format(domain.DateFormat),
		Quantity:   resp.Quantity,
		Available:  resp.Available,
		FreeUnits:  resp.FreeUnits,
		TotalUnits: resp.TotalUnits,
	}
}
