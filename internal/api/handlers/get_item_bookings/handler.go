package get_item_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/decor-rental-service/internal/api/handlers"
	"github.com/m04kA/decor-rental-service/internal/api/middleware"
	"github.com/m04kA/decor-rental-service/internal/service/bookings"
	"github.com/m04kA/decor-rental-service/internal/service/bookings/models"
)

const (
	msgInvalidItemID = "некорректный ID товара"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidFlag   = "некорректное значение includeInactive"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
	msgInvalidFilter = "некорректный фильтр бронирований"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/items/{itemId}/bookings?from=&to=&status=&includeInactive=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	itemID, err := handlers.PathInt64(r, "itemId")
	if err != nil {
		h.logger.Warn("GET /items/{itemId}/bookings - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /items/{itemId}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()

	// Парсим период (опционально)
	from, err := handlers.ParseOptionalDate(query.Get("from"))
	if err != nil {
		h.logger.Warn("GET /items/{itemId}/bookings - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := handlers.ParseOptionalDate(query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /items/{itemId}/bookings - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	includeInactive := false
	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err = strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /items/{itemId}/bookings - Invalid includeInactive: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFlag)
			return
		}
	}

	serviceReq := &models.GetItemBookingsRequest{
		Actor:           models.Actor{UserID: userID, IsAdmin: middleware.IsAdmin(r.Context())},
		ItemID:          itemID,
		From:            from,
		To:              to,
		IncludeInactive: includeInactive,
	}
	if status := query.Get("status"); status != "" {
		serviceReq.Status = &status
	}

	result, err := h.service.GetItemBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /items/{itemId}/bookings - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /items/{itemId}/bookings - Invalid filter: item_id=%d: %v", itemID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /items/{itemId}/bookings - Failed to get bookings: item_id=%d, error=%v", itemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /items/{itemId}/bookings - Bookings retrieved successfully: item_id=%d, count=%d",
		itemID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
