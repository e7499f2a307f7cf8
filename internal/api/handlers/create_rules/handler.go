package create_rules

import (
	"errors"
	"net/http"

	"github.com/m04kA/decor-rental-service/internal/api/handlers"
	"github.com/m04kA/decor-rental-service/internal/service/rules"
	"github.com/m04kA/decor-rental-service/internal/service/rules/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRules       = "некорректные правила аренды"
	msgAlreadyExist       = "правила для этой области уже существуют"
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

// Handle POST /api/v1/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRulesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrInvalidInput):
			h.logger.Warn("POST /rules - Invalid rules: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRules)

		case errors.Is(err, rules.ErrRulesAlreadyExist):
			h.logger.Warn("POST /rules - Rules already exist: item_id=%v, category_id=%v", req.ItemID, req.CategoryID)
			handlers.RespondConflict(w, msgAlreadyExist)

		default:
			h.logger.Error("POST /rules - Failed to create rules: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /rules - Rules created: rule_id=%d, scope=%s", result.ID, result.Scope)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
