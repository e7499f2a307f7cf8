package get_item_rules

import (
	"net/http"
	"strconv"

	"github.com/m04kA/decor-rental-service/internal/api/handlers"
	"github.com/m04kA/decor-rental-service/pkg/ptr"
)

const (
	msgInvalidItemID     = "некорректный ID товара"
	msgInvalidCategoryID = "некорректный ID категории"
)

type Handler struct {
	service RulesService
	logger  Logger
}

func NewHandler(service RulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/items/{itemId}/rules?categoryId=
// Возвращает действующие правила: товар > категория > глобальные > по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	itemID, err := handlers.PathInt64(r, "itemId")
	if err != nil {
		h.logger.Warn("GET /items/{itemId}/rules - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	var categoryID *int64
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.logger.Warn("GET /items/{itemId}/rules - Invalid category ID: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidCategoryID)
			return
		}
		categoryID = ptr.Ptr(id)
	}

	result, err := h.service.GetForItem(r.Context(), itemID, categoryID)
	if err != nil {
		h.logger.Error("GET /items/{itemId}/rules - Failed to get rules: item_id=%d, error=%v", itemID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /items/{itemId}/rules - Rules retrieved: item_id=%d, scope=%s", itemID, result.Scope)
	handlers.RespondJSON(w, http.StatusOK, result)
}
