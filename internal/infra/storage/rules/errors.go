package rules

import "errors"

var (
	// ErrRulesNotFound возвращается, когда правила аренды не найдены
	ErrRulesNotFound = errors.New("rules.repository: rules not found")

	// ErrDuplicateRules возвращается при попытке создать второе правило на тот же уровень иерархии
	ErrDuplicateRules = errors.New("rules.repository: duplicate rules for item and category")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rules.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rules.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rules.repository: failed to scan row")
)
