package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

const (
	msgInvalidPickupWeekday = "аренда начинается только в день выдачи"
	msgStartDateInPast      = "дата выдачи уже прошла"
	msgInvalidReturnWeekday = "возврат возможен только в день возврата"
	msgEndNotAfterStart     = "дата возврата должна быть позже даты выдачи"
	msgItemNotRentable      = "товар недоступен для аренды"
	msgUnavailable          = "товар занят на выбранные даты"
	msgAvailabilityUnknown  = "не удалось проверить доступность, попробуйте позже"
)

// RespondRentalError отвечает на ошибки калькулятора аренды
// Возвращает false, если ошибка к калькулятору не относится
//
// Ошибки окна и товара - 422 с полем и кодом причины, занято - 409, неизвестно - 503
func RespondRentalError(w http.ResponseWriter, err error) bool {
	var vErr *rentalcalc.ValidationError
	if errors.As(err, &vErr) {
		RespondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: validationMessage(vErr.Kind),
			Field:   vErr.Field,
			Reason:  rentalcalc.Reason(vErr.Kind),
		})
		return true
	}

	switch {
	case errors.Is(err, rentalcalc.ErrUnavailable):
		RespondConflict(w, msgUnavailable)
	case errors.Is(err, rentalcalc.ErrAvailabilityUnknown):
		RespondError(w, http.StatusServiceUnavailable, msgAvailabilityUnknown)
	default:
		return false
	}
	return true
}

func validationMessage(kind error) string {
	switch kind {
	case rentalcalc.ErrInvalidPickupWeekday:
		return msgInvalidPickupWeekday
	case rentalcalc.ErrStartDateInPast:
		return msgStartDateInPast
	case rentalcalc.ErrInvalidReturnWeekday:
		return msgInvalidReturnWeekday
	case rentalcalc.ErrEndNotAfterStart:
		return msgEndNotAfterStart
	case rentalcalc.ErrItemNotRentable:
		return msgItemNotRentable
	default:
		return kind.Error()
	}
}
