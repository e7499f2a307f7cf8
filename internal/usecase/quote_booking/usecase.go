package quote_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/decor-rental-service/internal/domain"
	catalogClient "github.com/m04kA/decor-rental-service/internal/integrations/catalogservice"
	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// UseCase use case для предварительного расчета стоимости аренды
// Доступность не проверяется: клиент запрашивает ее отдельно
type UseCase struct {
	rules         RulesProvider
	catalogClient CatalogClient
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(rules RulesProvider, catalogClient CatalogClient, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
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

// Execute рассчитывает стоимость аренды
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("QuoteBooking: item=%d, start=%s, quantity=%d",
		req.ItemID, req.StartDate.Format(domain.DateFormat), req.Quantity)

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
			uc.logger.Warn("QuoteBooking: item id=%d not found", req.ItemID)
			return nil, ErrItemNotFound
		}
		uc.logger.Error("QuoteBooking: failed to get item id=%d: %v", req.ItemID, err)
		return nil, fmt.Errorf("%w: failed to get item: %v", ErrInternal, err)
	}
	rentalItem := item.RentalItem()

	if err := rentalcalc.ValidateItem(rentalItem); err != nil {
		uc.logger.Warn("QuoteBooking: item id=%d is not rentable", req.ItemID)
		return nil, err
	}

	// 3. Получаем действующие правила
	rules, scope, err := uc.rules.GetEffective(ctx, item.ID, item.CategoryID)
	if err != nil {
		uc.logger.Error("QuoteBooking: failed to get rules for item id=%d: %v", req.ItemID, err)
		return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}
	calcRules := rules.ToCalcRules()

	// 4. Определяем дату возврата
	derived := false
	end := req.StartDate
	if req.EndDate != nil {
		end = *req.EndDate
	} else {
		defaultEnd, ok := calcRules.DeriveDefaultEndDate(req.StartDate)
		if !ok {
			// Без даты возврата валидация окна сообщит о неверном дне выдачи
			uc.logger.Warn("QuoteBooking: cannot derive end date for start=%s", req.StartDate.Format(domain.DateFormat))
		} else {
			end = defaultEnd
			derived = true
		}
	}

	// 5. Валидация периода
	window, err := calcRules.ValidateWindow(req.StartDate, end, now)
	if err != nil {
		uc.logger.Warn("QuoteBooking: window rejected by %s rules: %v", scope, err)
		return nil, err
	}

	if maxStart, limited := rules.MaxStartDate(now); limited && window.StartDate.After(maxStart) {
		uc.logger.Warn("QuoteBooking: start %s is after %s", window.StartDate.Format(domain.DateFormat), maxStart.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, rules.AdvanceBookingDays)
	}

	// 6. Считаем стоимость
	quote, err := calcRules.ComputeQuote(window, rentalItem.DailyRate, req.Quantity)
	if err != nil {
		uc.logger.Error("QuoteBooking: failed to compute quote for item id=%d: %v", req.ItemID, err)
		return nil, fmt.Errorf("%w: failed to compute quote: %v", ErrInternal, err)
	}
	uc.metrics.ObserveQuote()

	uc.logger.Info("QuoteBooking: item=%d, %d days, total=%s, deposit=%s",
		req.ItemID, quote.RentalDays, rentalcalc.FormatMoney(quote.Total), rentalcalc.FormatMoney(quote.Deposit))

	return &Response{
		ItemID:     item.ID,
		ItemName:   item.Name,
		StartDate:  window.StartDate,
		EndDate:    window.EndDate,
		EndDerived: derived,
		RulesScope: scope,
		RentalDays: quote.RentalDays,
		Quantity:   quote.Quantity,
		DailyRate:  quote.DailyRate,
		Subtotal:   quote.Subtotal,
		Tax:        quote.Tax,
		Deposit:    quote.Deposit,
		Total:      quote.Total,
		TotalDue:   quote.Total.Add(quote.Deposit),
	}, nil
}
