package domain

import (
	"context"
	"time"
)

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(ctx context.Context, event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg OutboxMessage) (OutboxMessage, error)
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// OutboxCleaner удаляет обработанные (sent/failed) сообщения outbox.
type OutboxCleaner interface {
	// DeleteProcessedBefore удаляет не более limit сообщений, обработанных не позже before.
	DeleteProcessedBefore(ctx context.Context, before time.Time, limit int) (int, error)
}

// TimelineRepository хранит события жизненного цикла заказа.
// Запись идёт в транзакции заказа, поэтому наружу торчит только чтение.
type TimelineRepository interface {
	List(ctx context.Context, orderID int64) ([]TimelineEvent, error)
}

// GameCache — кэш карточек игр для чтения по id.
type GameCache interface {
	// Get возвращает игру и признак попадания.
	Get(ctx context.Context, id int64) (Game, bool, error)
	Set(ctx context.Context, game Game) error
	Invalidate(ctx context.Context, id int64) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
