package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — общий признак отсутствующей записи; конкретные ошибки ниже оборачивают его.
	ErrNotFound = errors.New("not found")
	// ErrGameNotFound возвращается, если игры с таким id нет в каталоге.
	ErrGameNotFound = fmt.Errorf("game %w", ErrNotFound)
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = fmt.Errorf("order %w", ErrNotFound)
	// ErrValidation: запрос некорректен и не был передан в хранилище.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence — хранилище недоступно, нарушено ограничение или транзакция отменена.
	ErrPersistence = errors.New("persistence failure")
	// ErrOutboxPublish означает ошибку при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// ValidationError описывает конкретное поле, не прошедшее проверку.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError создаёт ошибку валидации для поля.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IsNotFound проверяет, что ошибка означает отсутствие записи.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation проверяет, что ошибка является ошибкой валидации.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// PersistenceError оборачивает ошибку хранилища так, чтобы она матчилась на ErrPersistence,
// сохраняя исходную причину для логов.
func PersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
