package list_rules

import (
	"context"

	"github.com/m04kA/decor-rental-service/internal/service/rules/models"
)

type RulesService interface {
	List(ctx context.Context) (*models.RulesListResponse, error)
	GetByID(ctx context.Context, id int64) (*models.RulesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
