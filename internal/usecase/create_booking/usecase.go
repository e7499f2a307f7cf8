package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/decor-rental-service/internal/domain"
	bookingRepo "github.com/m04kA/decor-rental-service/internal/infra/storage/booking"
	catalogClient "github.com/m04kA/decor-rental-service/internal/integrations/catalogservice"
	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	rules         RulesProvider
	catalogClient CatalogClient
	txManager     TransactionManager
	publisher     EventPublisher
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	rules RulesProvider,
	catalogClient CatalogClient,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		rules:         rules,
		catalogClient: catalogClient,
		txManager:     txManager,
		publisher:     publisher,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider подменяет часы (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию: только ответ этого пути о доступности окончательный
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	result, err := uc.execute(ctx, req)
	if err != nil {
		uc.metrics.ObserveBookingRejected(rejectReason(err))
		return nil, err
	}
	uc.metrics.ObserveBookingCreated()
	return result, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, order=%s, item=%d, start=%s, end=%s, quantity=%d",
		req.UserID, req.OrderID, req.ItemID,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), req.Quantity)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем товар из каталога
	item, err := uc.catalogClient.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrItemNotFound) {
			uc.logger.Warn("CreateBooking: item id=%d not found", req.ItemID)
			return nil, ErrItemNotFound
		}
		uc.logger.Error("CreateBooking: failed to get item id=%d: %v", req.ItemID, err)
		return nil, fmt.Errorf("%w: failed to get item: %v", ErrInternal, err)
	}
	rentalItem := item.RentalItem()

	// 4. Товар должен допускать аренду
	if err := rentalcalc.ValidateItem(rentalItem); err != nil {
		uc.logger.Warn("CreateBooking: item id=%d is not rentable", req.ItemID)
		return nil, err
	}

	// 5. Получаем действующие правила
	rules, scope, err := uc.rules.GetEffective(ctx, item.ID, item.CategoryID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get rules for item id=%d: %v", req.ItemID, err)
		return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}
	uc.logger.Info("CreateBooking: using %s rules for item id=%d", scope, req.ItemID)
	calcRules := rules.ToCalcRules()

	// 6. Валидация периода по серверному времени
	window, err := calcRules.ValidateWindow(req.StartDate, req.EndDate, now)
	if err != nil {
		uc.logger.Warn("CreateBooking: window validation failed: %v", err)
		return nil, err
	}

	// 7. Ограничение на бронирование заранее
	if err := validateAdvanceLimit(rules, window, now); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 8. Считаем стоимость до транзакции: она зависит только от товара и правил
	quote, err := calcRules.ComputeQuote(window, rentalItem.DailyRate, req.Quantity)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to compute quote: %v", err)
		return nil, fmt.Errorf("%w: failed to compute quote: %v", ErrInternal, err)
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 9. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Получаем пересекающиеся активные брони с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetOverlapping(txCtx, req.ItemID, window.StartDate, window.EndDate)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 9.2. Пересчитываем доступность
		availability := domain.NewItemAvailability(rentalItem, window, bookings, req.Quantity)
		if availability.Outcome() != rentalcalc.Available {
			uc.logger.Warn("CreateBooking: item id=%d not available, %d/%d units booked, requested %d",
				req.ItemID, availability.BookedUnits, availability.TotalUnits(), req.Quantity)
			return rentalcalc.ErrUnavailable
		}

		uc.logger.Info("CreateBooking: item id=%d available, %d/%d units booked",
			req.ItemID, availability.BookedUnits, availability.TotalUnits())

		// 9.3. Создаем бронирование с денормализацией расчета
		booking := &domain.Booking{
			OrderID:    req.OrderID,
			UserID:     req.UserID,
			ItemID:     item.ID,
			CategoryID: item.CategoryID,
			StartDate:  window.StartDate,
			EndDate:    window.EndDate,
			Status:     domain.StatusPending,
			ItemName:   item.Name,
			Notes:      req.Notes,
		}
		booking.ApplyQuote(quote)

		// 9.4. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateOrderLine) {
				uc.logger.Warn("CreateBooking: order=%s already has a booking for item id=%d", req.OrderID, req.ItemID)
				return ErrDuplicateOrderLine
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 10. Сообщаем сервису заказов; бронь уже сохранена, поэтому ошибка только логируется
	event := domain.NewBookingEvent(domain.EventBookingCreated, result, now)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	// Конвертируем в response
	return &Response{
		ID:         result.ID,
		OrderID:    result.OrderID,
		UserID:     result.UserID,
		ItemID:     result.ItemID,
		StartDate:  result.StartDate,
		EndDate:    result.EndDate,
		Quantity:   result.Quantity,
		Status:     string(result.Status),
		ItemName:   result.ItemName,
		RentalDays: result.RentalDays,
		DailyRate:  result.DailyRate,
		Subtotal:   result.Subtotal,
		Tax:        result.Tax,
		Deposit:    result.Deposit,
		Total:      result.Total,
		Notes:      result.Notes,
		CreatedAt:  result.CreatedAt,
		UpdatedAt:  result.UpdatedAt,
	}, nil
}
