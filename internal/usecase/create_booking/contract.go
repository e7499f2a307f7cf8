package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/decor-rental-service/internal/domain"
	"github.com/m04kA/decor-rental-service/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
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

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// Metrics счетчики создания броней
type Metrics interface {
	ObserveBookingCreated()
	ObserveBookingRejected(reason string)
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
