package domain

import "time"

// Типы событий timeline.
const (
	TimelineOrderCreated  = "created"
	TimelineStatusChanged = "status_changed"
)

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	ID         int64
	OrderID    int64
	Type       string
	Status     OrderStatus
	OccurredAt time.Time
}
