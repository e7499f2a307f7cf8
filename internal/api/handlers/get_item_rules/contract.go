package get_item_rules

import (
	"context"

	"github.com/m04kA/decor-rental-service/internal/service/rules/models"
)

type RulesService interface {
	GetForItem(ctx context.Context, itemID int64, categoryID *int64) (*models.RulesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
