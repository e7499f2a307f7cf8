package rules

import "errors"

var (
	// ErrRulesNotFound возвращается, когда правила не найдены
	ErrRulesNotFound = errors.New("rules not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrRulesAlreadyExist возвращается при попытке создать дублирующие правила
	ErrRulesAlreadyExist = errors.New("rules already exist")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
