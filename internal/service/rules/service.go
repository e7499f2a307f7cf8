package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/decor-rental-service/internal/domain"
	rulesRepo "github.com/m04kA/decor-rental-service/internal/infra/storage/rules"
	"github.com/m04kA/decor-rental-service/internal/service/rules/models"
	"github.com/m04kA/decor-rental-service/pkg/rentalcalc"
)

// Service сервис для работы с правилами аренды
type Service struct {
	rulesRepo RulesRepository
	defaults  domain.RentalRules
	logger    Logger
}

// NewService создает новый экземпляр сервиса правил
// defaults применяются, если в БД нет правил ни на одном уровне иерархии
func NewService(rulesRepo RulesRepository, defaults domain.RentalRules, logger Logger) *Service {
	defaults.ID = 0
	defaults.ItemID = nil
	defaults.CategoryID = nil
	return &Service{
		rulesRepo: rulesRepo,
		defaults:  defaults,
		logger:    logger,
	}
}

// GetEffective возвращает правила, действующие для товара
// Приоритет: item > category > global > значения из конфига
func (s *Service) GetEffective(ctx context.Context, itemID int64, categoryID *int64) (*domain.RentalRules, string, error) {
	rules, err := s.rulesRepo.GetRulesWithHierarchy(ctx, itemID, categoryID)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrRulesNotFound) {
			defaults := s.defaults
			return &defaults, domain.RulesScopeDefault, nil
		}
		s.logger.Error("GetEffective: repository error for item=%d: %v", itemID, err)
		return nil, "", fmt.Errorf("%w: GetEffective - repository error: %v", ErrInternal, err)
	}

	return rules, rules.Scope(), nil
}

// GetForItem возвращает действующие правила товара в виде DTO
// Публичный метод - клиент показывает по ним подсказки в календаре
func (s *Service) GetForItem(ctx context.Context, itemID int64, categoryID *int64) (*models.RulesResponse, error) {
	s.logger.Info("GetForItem: fetching rules for item=%d, category=%v", itemID, categoryID)

	if itemID <= 0 {
		return nil, fmt.Errorf("%w: itemId must be positive", ErrInvalidInput)
	}

	rules, scope, err := s.GetEffective(ctx, itemID, categoryID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetForItem: item=%d uses %s rules", itemID, scope)
	return models.FromDomainRules(rules, scope), nil
}

// GetByID получает правила по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.RulesResponse, error) {
	s.logger.Info("GetByID: fetching rules id=%d", id)

	rules, err := s.rulesRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrRulesNotFound) {
			s.logger.Warn("GetByID: rules id=%d not found", id)
			return nil, ErrRulesNotFound
		}
		s.logger.Error("GetByID: repository error for rules id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRules(rules, rules.Scope()), nil
}

// List получает все сохраненные правила
func (s *Service) List(ctx context.Context) (*models.RulesListResponse, error) {
	s.logger.Info("List: fetching all rules")

	list, err := s.rulesRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: found %d rules", len(list))
	return models.FromDomainRulesList(list), nil
}

// Create создает новые правила аренды
// Доступно только администраторам (проверяется middleware)
func (s *Service) Create(ctx context.Context, req *models.CreateRulesRequest) (*models.RulesResponse, error) {
	s.logger.Info("Create: creating rules for item=%v, category=%v", req.ItemID, req.CategoryID)

	// 1. Разбираем дни недели
	pickup, err := rentalcalc.ParseWeekday(req.PickupWeekday)
	if err != nil {
		s.logger.Warn("Create: invalid pickupWeekday %q: %v", req.PickupWeekday, err)
		return nil, fmt.Errorf("%w: pickupWeekday: %v", ErrInvalidInput, err)
	}
	ret, err := rentalcalc.ParseWeekday(req.ReturnWeekday)
	if err != nil {
		s.logger.Warn("Create: invalid returnWeekday %q: %v", req.ReturnWeekday, err)
		return nil, fmt.Errorf("%w: returnWeekday: %v", ErrInvalidInput, err)
	}

	// 2. Валидируем данные
	domainRules := req.ToDomainRules(pickup, ret)
	if err := s.validateRules(domainRules); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем, что на этом уровне иерархии правил еще нет
	existing, err := s.rulesRepo.GetByScope(ctx, req.ItemID, req.CategoryID)
	if err != nil && !errors.Is(err, rulesRepo.ErrRulesNotFound) {
		s.logger.Error("Create: failed to check existing rules: %v", err)
		return nil, fmt.Errorf("%w: failed to check existing rules: %v", ErrInternal, err)
	}
	if existing != nil {
		s.logger.Warn("Create: rules already exist for item=%v, category=%v", req.ItemID, req.CategoryID)
		return nil, ErrRulesAlreadyExist
	}

	// 4. Сохраняем
	created, err := s.rulesRepo.Create(ctx, domainRules)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrDuplicateRules) {
			return nil, ErrRulesAlreadyExist
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created %s rules id=%d", created.Scope(), created.ID)
	return models.FromDomainRules(created, created.Scope()), nil
}

// Update частично обновляет правила
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateRulesRequest) (*models.RulesResponse, error) {
	s.logger.Info("Update: updating rules id=%d", id)

	// 1. Получаем текущие правила
	current, err := s.rulesRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrRulesNotFound) {
			s.logger.Warn("Update: rules id=%d not found", id)
			return nil, ErrRulesNotFound
		}
		s.logger.Error("Update: failed to get rules id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - get rules: %v", ErrInternal, err)
	}

	// 2. Применяем изменения и валидируем результат целиком
	if err := req.ApplyToRules(current); err != nil {
		s.logger.Warn("Update: invalid weekday: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.validateRules(current); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 3. Сохраняем
	updated, err := s.rulesRepo.Update(ctx, id, current)
	if err != nil {
		if errors.Is(err, rulesRepo.ErrRulesNotFound) {
			return nil, ErrRulesNotFound
		}
		s.logger.Error("Update: repository error for rules id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated rules id=%d", id)
	return models.FromDomainRules(updated, updated.Scope()), nil
}

// Delete удаляет правила. Товары переходят на следующий уровень иерархии.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting rules id=%d", id)

	if err := s.rulesRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, rulesRepo.ErrRulesNotFound) {
			s.logger.Warn("Delete: rules id=%d not found", id)
			return ErrRulesNotFound
		}
		s.logger.Error("Delete: repository error for rules id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted rules id=%d", id)
	return nil
}

// validateRules проверяет бизнес-ограничения правил
func (s *Service) validateRules(r *domain.RentalRules) error {
	if r.ItemID != nil && *r.ItemID <= 0 {
		return fmt.Errorf("%w: itemId must be positive", ErrInvalidInput)
	}
	if r.CategoryID != nil && *r.CategoryID <= 0 {
		return fmt.Errorf("%w: categoryId must be positive", ErrInvalidInput)
	}
	if r.ItemID != nil && r.CategoryID != nil {
		return fmt.Errorf("%w: rules apply either to an item or to a category", ErrInvalidInput)
	}

	if r.DefaultRentalDays < domain.MinRentalDays || r.DefaultRentalDays > domain.MaxRentalDays {
		return fmt.Errorf("%w: defaultRentalDays must be between %d and %d",
			ErrInvalidInput, domain.MinRentalDays, domain.MaxRentalDays)
	}

	maxPercent := decimal.NewFromInt(domain.MaxRatePercent)
	if r.TaxRatePercent.IsNegative() || r.TaxRatePercent.GreaterThan(maxPercent) {
		return fmt.Errorf("%w: taxRatePercent must be between 0 and %d", ErrInvalidInput, domain.MaxRatePercent)
	}
	if r.DepositRatePercent.IsNegative() || r.DepositRatePercent.GreaterThan(maxPercent) {
		return fmt.Errorf("%w: depositRatePercent must be between 0 and %d", ErrInvalidInput, domain.MaxRatePercent)
	}

	if r.AdvanceBookingDays < domain.MinAdvanceBookingDays || r.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	// Срок аренды по умолчанию должен вести от дня выдачи ко дню возврата
	if err := r.ToCalcRules().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return nil
}
