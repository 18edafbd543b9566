package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Типы событий заказа, которые попадают в outbox.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"

	aggregateOrder = "order"
)

// OrderEventPayload — тело события заказа в outbox.
type OrderEventPayload struct {
	OrderID       int64            `json:"order_id"`
	CustomerEmail string           `json:"customer_email,omitempty"`
	Status        OrderStatus      `json:"status"`
	TotalPrice    *decimal.Decimal `json:"total_price,omitempty"`
	ItemCount     int              `json:"item_count,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// NewOrderCreatedMessage собирает outbox-сообщение о создании заказа.
func NewOrderCreatedMessage(order Order, itemCount int) (OutboxMessage, error) {
	total := order.TotalPrice
	return newOrderMessage(EventOrderCreated, OrderEventPayload{
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		Status:        order.Status,
		TotalPrice:    &total,
		ItemCount:     itemCount,
		OccurredAt:    order.CreatedAt.UTC(),
	})
}

// NewOrderStatusChangedMessage собирает outbox-сообщение о смене статуса.
func NewOrderStatusChangedMessage(orderID int64, status OrderStatus, at time.Time) (OutboxMessage, error) {
	return newOrderMessage(EventOrderStatusChanged, OrderEventPayload{
		OrderID:    orderID,
		Status:     status,
		OccurredAt: at.UTC(),
	})
}

func newOrderMessage(eventType string, payload OrderEventPayload) (OutboxMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return OutboxMessage{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return OutboxMessage{
		AggregateType: aggregateOrder,
		AggregateID:   strconv.FormatInt(payload.OrderID, 10),
		EventType:     eventType,
		Payload:       body,
	}, nil
}
