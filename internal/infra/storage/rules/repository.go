package rules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/decor-rental-service/internal/domain"
	"github.com/m04kA/decor-rental-service/pkg/dbmetrics"
	"github.com/m04kA/decor-rental-service/pkg/psqlbuilder"
)

const (
	tableRules = "rental_rules"

	pqUniqueViolation = "23505"
)

var rulesColumns = []string{
	"id",
	"item_id",
	"category_id",
	"pickup_weekday",
	"return_weekday",
	"default_rental_days",
	"tax_rate_percent",
	"deposit_rate_percent",
	"advance_booking_days",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с правилами аренды
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил аренды
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новые правила аренды
func (r *Repository) Create(ctx context.Context, rules *domain.RentalRules) (*domain.RentalRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableRules).
		Columns(
			"item_id",
			"category_id",
			"pickup_weekday",
			"return_weekday",
			"default_rental_days",
			"tax_rate_percent",
			"deposit_rate_percent",
			"advance_booking_days",
		).
		Values(
			rules.ItemID,
			rules.CategoryID,
			int(rules.PickupWeekday),
			int(rules.ReturnWeekday),
			rules.DefaultRentalDays,
			rules.TaxRatePercent,
			rules.DepositRatePercent,
			rules.AdvanceBookingDays,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rules.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateRules
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return rules, nil
}

// GetByID получает правила по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RentalRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(rulesColumns...).
		From(tableRules).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rules, err := scanRules(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rules: %v", ErrScanRow, err)
	}

	return rules, nil
}

// GetByScope получает правила конкретного уровня иерархии:
// 1. itemID задан - правила товара
// 2. только categoryID задан - правила категории
// 3. оба nil - глобальные правила
func (r *Repository) GetByScope(ctx context.Context, itemID *int64, categoryID *int64) (*domain.RentalRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(rulesColumns...).From(tableRules)

	// Фильтрация по item_id (NULL или конкретное значение)
	if itemID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"item_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"item_id": *itemID})
	}

	// Правила товара не зависят от категории
	if itemID == nil {
		if categoryID == nil {
			selectBuilder = selectBuilder.Where(squirrel.Eq{"category_id": nil})
		} else {
			selectBuilder = selectBuilder.Where(squirrel.Eq{"category_id": *categoryID})
		}
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByScope - build select query: %v", ErrBuildQuery, err)
	}

	rules, err := scanRules(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByScope - scan rules: %v", ErrScanRow, err)
	}

	return rules, nil
}

// GetRulesWithHierarchy получает правила с учетом иерархии приоритетов:
// 1. Правила конкретного товара (itemID)
// 2. Правила категории товара (categoryID)
// 3. Глобальные правила (NULL, NULL)
//
// Если правила не найдены ни на одном уровне, возвращает ErrRulesNotFound
func (r *Repository) GetRulesWithHierarchy(ctx context.Context, itemID int64, categoryID *int64) (*domain.RentalRules, error) {
	// 1. Пробуем получить правила товара
	rules, err := r.GetByScope(ctx, &itemID, nil)
	if err == nil {
		return rules, nil
	}
	if !errors.Is(err, ErrRulesNotFound) {
		return nil, fmt.Errorf("%w: GetRulesWithHierarchy - level 1 (item): %v", ErrExecQuery, err)
	}

	// 2. Пробуем получить правила категории (если категория указана)
	if categoryID != nil {
		rules, err := r.GetByScope(ctx, nil, categoryID)
		if err == nil {
			return rules, nil
		}
		if !errors.Is(err, ErrRulesNotFound) {
			return nil, fmt.Errorf("%w: GetRulesWithHierarchy - level 2 (category): %v", ErrExecQuery, err)
		}
	}

	// 3. Пробуем получить глобальные правила
	rules, err = r.GetByScope(ctx, nil, nil)
	if err == nil {
		return rules, nil
	}
	if !errors.Is(err, ErrRulesNotFound) {
		return nil, fmt.Errorf("%w: GetRulesWithHierarchy - level 3 (global): %v", ErrExecQuery, err)
	}

	return nil, ErrRulesNotFound
}

// List получает все правила, глобальные первыми
func (r *Repository) List(ctx context.Context) ([]*domain.RentalRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(rulesColumns...).
		From(tableRules).
		OrderBy("item_id ASC NULLS FIRST, category_id ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.RentalRules, 0)
	for rows.Next() {
		rules, err := scanRules(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		result = append(result, rules)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Update обновляет правила аренды
func (r *Repository) Update(ctx context.Context, id int64, rules *domain.RentalRules) (*domain.RentalRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableRules).
		Set("pickup_weekday", int(rules.PickupWeekday)).
		Set("return_weekday", int(rules.ReturnWeekday)).
		Set("default_rental_days", rules.DefaultRentalDays).
		Set("tax_rate_percent", rules.TaxRatePercent).
		Set("deposit_rate_percent", rules.DepositRatePercent).
		Set("advance_booking_days", rules.AdvanceBookingDays).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rules.ID = id
	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return rules, nil
}

// Delete удаляет правила аренды
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableRules).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRulesNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRules(row rowScanner) (*domain.RentalRules, error) {
	var rules domain.RentalRules
	var pickup, ret int
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&rules.ID,
		&rules.ItemID,
		&rules.CategoryID,
		&pickup,
		&ret,
		&rules.DefaultRentalDays,
		&rules.TaxRatePercent,
		&rules.DepositRatePercent,
		&rules.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rules.PickupWeekday = time.Weekday(pickup)
	rules.ReturnWeekday = time.Weekday(ret)
	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return &rules, nil
}
