package create_rules

import (
	"context"

	"github.com/m04kA/decor-rental-service/internal/service/rules/models"
)

type RulesService interface {
	Create(ctx context.Context, req *models.CreateRulesRequest) (*models.RulesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
