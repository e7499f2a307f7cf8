package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/decor-rental-service/internal/api/handlers"
	checkAvailability "github.com/m04kA/decor-rental-service/internal/usecase/check_availability"
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
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/items/{itemId}/availability?startDate=&endDate=&quantity=
// Занятость не ошибка: ответ 200 с available=false
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	itemID, err := handlers.PathInt64(r, "itemId")
	if err != nil {
		h.logger.Warn("GET /items/{itemId}/availability - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	query := r.URL.Query()

	startDate, err := handlers.ParseDate(query.Get("startDate"))
	if err != nil {
		h.logger.Warn("GET /items/{itemId}/availability - Invalid startDate: %v", err)
		handlers.RespondFieldError(w, http.StatusBadRequest, msgInvalidDate, "startDate")
		return
	}
	endDate, err := handlers.ParseDate(query.Get("endDate"))
	if err != nil {
		h.logger.Warn("GET /items/{itemId}/availability - Invalid endDate: %v", err)
		handlers.RespondFieldError(w, http.StatusBadRequest, msgInvalidDate, "endDate")
		return
	}

	quantity, err := handlers.QueryInt(r, "quantity", 1)
	if err != nil {
		h.logger.Warn("GET /items/{itemId}/availability - Invalid quantity: %v", err)
		handlers.RespondFieldError(w, http.StatusBadRequest, msgInvalidQuantity, "quantity")
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkAvailability.Request{
		ItemID:    itemID,
		StartDate: startDate,
		EndDate:   endDate,
		Quantity:  quantity,
	})
	if err != nil {
		if handlers.RespondRentalError(w, err) {
			h.logger.Warn("GET /items/{itemId}/availability - Check failed: item_id=%d: %v", itemID, err)
			return
		}

		switch {
		case errors.Is(err, checkAvailability.ErrItemNotFound):
			h.logger.Warn("GET /items/{itemId}/availability - Item not found: item_id=%d", itemID)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, checkAvailability.ErrDateTooFarInFuture):
			h.logger.Warn("GET /items/{itemId}/availability - Date too far: item_id=%d", itemID)
			handlers.RespondFieldError(w, http.StatusUnprocessableEntity, msgDateTooFar, "startDate")

		case errors.Is(err, checkAvailability.ErrInvalidInput):
			h.logger.Warn("GET /items/{itemId}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /items/{itemId}/availability - Failed to check availability: item_id=%d, error=%v",
				itemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /items/{itemId}/availability - item_id=%d, %s..%s, quantity=%d, available=%t",
		itemID, query.Get("startDate"), query.Get("endDate"), quantity, result.Available)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
