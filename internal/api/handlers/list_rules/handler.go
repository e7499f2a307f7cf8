package list_rules

import (
	"errors"
	"net/http"

	"github.com/m04kA/decor-rental-service/internal/api/handlers"
	"github.com/m04kA/decor-rental-service/internal/service/rules"
)

const (
	msgInvalidRuleID = "некорректный ID правил"
	msgNotFound      = "правила не найдены"
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

// Handle GET /api/v1/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /rules - Failed to list rules: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /rules - Rules listed: count=%d", len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleGet GET /api/v1/rules/{ruleId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ruleID, err := handlers.PathInt64(r, "ruleId")
	if err != nil {
		h.logger.Warn("GET /rules/{id} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	result, err := h.service.GetByID(r.Context(), ruleID)
	if err != nil {
		if errors.Is(err, rules.ErrRulesNotFound) {
			h.logger.Warn("GET /rules/{id} - Rules not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /rules/{id} - Failed to get rules: rule_id=%d, error=%v", ruleID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
