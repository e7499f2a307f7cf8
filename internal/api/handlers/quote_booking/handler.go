package quote_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/decor-rental-service/internal/api/handlers"
	quoteBooking "github.com/m04kA/decor-rental-service/internal/usecase/quote_booking"
)

const (
	msgInvalidItemID   = "некорректный ID товара"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidQuantity = "некорректное количество"
	msgItemNotFound    = "товар не найден"
	msgDateTooFar      = "дата выдачи слишком далеко в будущем"
	msgInvalidInput    = "некорректные параметры запроса"
)

type Handler struct {
	useCase QuoteBookingUseCase
	logger  Logger
}

func NewHandler(useCase QuoteBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/items/{itemId}/quote?startDate=&endDate=&quantity=
// endDate можно не передавать: дата возврата будет выведена из правил
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	itemID, err := handlers.PathInt64(r, "itemId")
	if err != nil {
		h.logger.Warn("GET /items/{itemId}/quote - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	query := r.URL.Query()

	startDate, err := handlers.ParseDate(query.Get("startDate"))
	if err != nil {
		h.logger.Warn("GET /items/{itemId}/quote - Invalid startDate: %v", err)
		handlers.RespondFieldError(w, http.StatusBadRequest, msgInvalidDate, "startDate")
		return
	}
	endDate, err := handlers.ParseOptionalDate(query.Get("endDate"))
	if err != nil {
		h.logger.Warn("GET /items/{itemId}/quote - Invalid endDate: %v", err)
		handlers.RespondFieldError(w, http.StatusBadRequest, msgInvalidDate, "endDate")
		return
	}

	quantity, err := handlers.QueryInt(r, "quantity", 1)
	if err != nil {
		h.logger.Warn("GET /items/{itemId}/quote - Invalid quantity: %v", err)
		handlers.RespondFieldError(w, http.StatusBadRequest, msgInvalidQuantity, "quantity")
		return
	}

	result, err := h.useCase.Execute(r.Context(), &quoteBooking.Request{
		ItemID:    itemID,
		StartDate: startDate,
		EndDate:   endDate,
		Quantity:  quantity,
	})
	if err != nil {
		if handlers.RespondRentalError(w, err) {
			h.logger.Warn("GET /items/{itemId}/quote - Quote rejected: item_id=%d: %v", itemID, err)
			return
		}

		switch {
		case errors.Is(err, quoteBooking.ErrItemNotFound):
			h.logger.Warn("GET /items/{itemId}/quote - Item not found: item_id=%d", itemID)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, quoteBooking.ErrDateTooFarInFuture):
			h.logger.Warn("GET /items/{itemId}/quote - Date too far: item_id=%d", itemID)
			handlers.RespondFieldError(w, http.StatusUnprocessableEntity, msgDateTooFar, "startDate")

		case errors.Is(err, quoteBooking.ErrInvalidInput):
			h.logger.Warn("GET /items/{itemId}/quote - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /items/{itemId}/quote - Failed to compute quote: item_id=%d, error=%v", itemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /items/{itemId}/quote - item_id=%d, days=%d, quantity=%d, total=%s",
		itemID, result.RentalDays, result.Quantity, result.Total.StringFixed(2))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
