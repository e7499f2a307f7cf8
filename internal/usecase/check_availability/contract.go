package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/decor-rental-service/internal/domain"
	"github.com/m04kA/decor-rental-service/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetOverlapping получает активные бронирования товара, пересекающиеся с [start, end)
	GetOverlapping(ctx context.Context, itemID int64, start, end time.Time) ([]*domain.Booking, error)
}

// RulesProvider возвращает действующие правила аренды с учетом иерархии
type RulesProvider interface {
	GetEffective(ctx context.Context, itemID int64, categoryID *int64) (*domain.RentalRules, string, error)
}

// CatalogClient интерфейс клиента для CatalogService
type CatalogClient interface {
	GetItem(ctx context.Context, itemID int64) (*catalogservice.Item, error)
}

// Metrics счетчики исходов проверки
type Metrics interface {
	ObserveAvailability(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
