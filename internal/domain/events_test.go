package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewOrderCreatedMessage(t *testing.T) {
	order := Order{
		ID:            42,
		CustomerEmail: "player@example.com",
		TotalPrice:    decimal.RequireFromString("44.98"),
		Status:        OrderStatusPending,
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	msg, err := NewOrderCreatedMessage(order, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.AggregateType != "order" || msg.AggregateID != "42" || msg.EventType != EventOrderCreated {
		t.Fatalf("unexpected envelope: %+v", msg)
	}

	var payload map[string]any
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if payload["total_price"] != "44.98" {
		t.Fatalf("unexpected total_price %v", payload["total_price"])
	}
	if payload["item_count"] != float64(2) {
		t.Fatalf("unexpected item_count %v", payload["item_count"])
	}
}

func TestNewOrderStatusChangedMessage(t *testing.T) {
	msg, err := NewOrderStatusChangedMessage(7, OrderStatusShipped, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.EventType != EventOrderStatusChanged || msg.AggregateID != "7" {
		t.Fatalf("unexpected envelope: %+v", msg)
	}

	var payload OrderEventPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if payload.Status != OrderStatusShipped || payload.TotalPrice != nil {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}
