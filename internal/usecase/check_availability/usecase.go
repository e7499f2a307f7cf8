package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/decor-rental-service/internal/domain"
	catalogClient "github.com/m04kA/decor-rental-service/internal/integrations/catalogservice"
	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// UseCase use case для проверки доступности товара на период аренды
// Ответ носит справочный характер: окончательная проверка выполняется при создании брони
type UseCase struct {
	bookingRepo   BookingRepository
	rules         RulesProvider
	catalogClient CatalogClient
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	rules RulesProvider,
	catalogClient CatalogClient,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		rules:         rules,
		catalogClient: catalogClient,
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

// Execute выполняет проверку доступности
// Ошибки каталога и БД возвращаются как rentalcalc.ErrAvailabilityUnknown, а не как "занято"
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: item=%d, start=%s, end=%s, quantity=%d",
		req.ItemID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), req.Quantity)

	// 1. Валидация входных данных
	if req.ItemID <= 0 {
		return nil, fmt.Errorf("%w: itemId must be positive", ErrInvalidInput)
	}
	if req.Quantity < 1 || req.Quantity > domain.DefaultMaxQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalidInput, domain.DefaultMaxQuantity)
	}

	now := uc.timeProvider.Now()

	// 2. Получаем товар из каталога
	item, err := uc.catalogClient.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrItemNotFound) {
			uc.logger.Warn("CheckAvailability: item id=%d not found", req.ItemID)
			return nil, ErrItemNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get item id=%d: %v", req.ItemID, err)
		return nil, uc.unknown(fmt.Errorf("failed to get item: %w", err))
	}
	rentalItem := item.RentalItem()

	// 3. Товар должен допускать аренду
	if err := rentalcalc.ValidateItem(rentalItem); err != nil {
		uc.logger.Warn("CheckAvailability: item id=%d is not rentable", req.ItemID)
		return nil, err
	}

	// 4. Получаем действующие правила
	rules, scope, err := uc.rules.GetEffective(ctx, item.ID, item.CategoryID)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to get rules for item id=%d: %v", req.ItemID, err)
		return nil, uc.unknown(fmt.Errorf("failed to get rules: %w", err))
	}

	// 5. Проверяем период по тем же правилам, что и при создании брони
	window, err := rules.ToCalcRules().ValidateWindow(req.StartDate, req.EndDate, now)
	if err != nil {
		uc.logger.Warn("CheckAvailability: window rejected by %s rules: %v", scope, err)
		return nil, err
	}

	if maxStart, limited := rules.MaxStartDate(now); limited && window.StartDate.After(maxStart) {
		uc.logger.Warn("CheckAvailability: start %s is after %s", window.StartDate.Format(domain.DateFormat), maxStart.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, rules.AdvanceBookingDays)
	}

	// 6. Считаем занятые экземпляры
	bookings, err := uc.bookingRepo.GetOverlapping(ctx, req.ItemID, window.StartDate, window.EndDate)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to get bookings for item id=%d: %v", req.ItemID, err)
		return nil, uc.unknown(fmt.Errorf("failed to get bookings: %w", err))
	}

	availability := domain.NewItemAvailability(rentalItem, window, bookings, req.Quantity)
	outcome := availability.Outcome()
	uc.metrics.ObserveAvailability(outcome.String())

	uc.logger.Info("CheckAvailability: item=%d is %s, %d/%d units booked",
		req.ItemID, outcome, availability.BookedUnits, availability.TotalUnits())

	return &Response{
		ItemID:     req.ItemID,
		StartDate:  window.StartDate,
		EndDate:    window.EndDate,
		Quantity:   req.Quantity,
		Available:  outcome == rentalcalc.Available,
		FreeUnits:  availability.FreeUnits(),
		TotalUnits: availability.TotalUnits(),
	}, nil
}

func (uc *UseCase) unknown(cause error) error {
	uc.metrics.ObserveAvailability(rentalcalc.AvailabilityUnknown.String())
	return fmt.Errorf("%w: %v", rentalcalc.ErrAvailabilityUnknown, cause)
}
