package rules

import (
	"context"

	"github.com/m04kA/decor-rental-service/internal/domain"
)

// RulesRepository интерфейс репозитория правил аренды
type RulesRepository interface {
	Create(ctx context.Context, rules *domain.RentalRules) (*domain.RentalRules, error)
	GetByID(ctx context.Context, id int64) (*domain.RentalRules, error)
	GetByScope(ctx context.Context, itemID *int64, categoryID *int64) (*domain.RentalRules, error)
	GetRulesWithHierarchy(ctx context.Context, itemID int64, categoryID *int64) (*domain.RentalRules, error)
	List(ctx context.Context) ([]*domain.RentalRules, error)
	Update(ctx context.Context, id int64, rules *domain.RentalRules) (*domain.RentalRules, error)
	Delete(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
