package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxStatusLength совпадает с шириной колонки orders.status в символах.
const maxStatusLength = 50

// StatusPolicy определяет, какие значения статуса принимает UpdateStatus.
type StatusPolicy string

const (
	// StatusPolicyFreeForm принимает любую непустую строку до 50 символов.
	StatusPolicyFreeForm StatusPolicy = "free-form"
	// StatusPolicyClosed принимает только известные статусы.
	StatusPolicyClosed StatusPolicy = "closed"
)

var knownStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:   {},
	OrderStatusPaid:      {},
	OrderStatusShipped:   {},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// ParseStatusPolicy разбирает значение ORDER_STATUS_POLICY. Пустая строка даёт free-form.
func ParseStatusPolicy(raw string) (StatusPolicy, error) {
	switch StatusPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusPolicyFreeForm:
		return StatusPolicyFreeForm, nil
	case StatusPolicyClosed:
		return StatusPolicyClosed, nil
	default:
		return "", fmt.Errorf("unknown order status policy %q", raw)
	}
}

// Validate проверяет новый статус заказа согласно политике.
func (p StatusPolicy) Validate(status OrderStatus) error {
	if strings.TrimSpace(string(status)) == "" {
		return NewValidationError("status", "is required")
	}
	if utf8.RuneCountInString(string(status)) > maxStatusLength {
		return NewValidationError("status", "is too long")
	}
	if p == StatusPolicyClosed {
		if _, ok := knownStatuses[status]; !ok {
			return NewValidationError("status", fmt.Sprintf("unsupported status %q", status))
		}
	}
	return nil
}

// IsKnown сообщает, входит ли статус в известный набор.
func (s OrderStatus) IsKnown() bool {
	_, ok := knownStatuses[s]
	return ok
}
