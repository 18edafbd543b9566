package postgres

import (
	"context"
	"database/sql"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

type timelineRepository struct {
	db *sql.DB
}

// NewTimelineRepository создаёт PostgreSQL-реализацию TimelineRepository.
func NewTimelineRepository(store *Store) domain.TimelineRepository {
	return &timelineRepository{db: store.DB()}
}

func (r *timelineRepository) List(ctx context.Context, orderID int64) ([]domain.TimelineEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, type, status, occurred_at
		FROM order_timeline
		WHERE order_id = $1
		ORDER BY occurred_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, storeError("list timeline events", err)
	}
	defer rows.Close()

	events := make([]domain.TimelineEvent, 0)
	for rows.Next() {
		var (
			event  domain.TimelineEvent
			status string
		)
		if err := rows.Scan(&event.ID, &event.OrderID, &event.Type, &status, &event.OccurredAt); err != nil {
			return nil, storeError("scan timeline event", err)
		}
		event.Status = domain.OrderStatus(status)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate timeline events", err)
	}

	return events, nil
}

// appendTimeline пишет событие через ex; внутри транзакции заказа ex — это *sql.Tx.
// occurred_at берётся из NOW() транзакции, поэтому совпадает с orders.created_at.
func appendTimeline(ctx context.Context, ex execer, event domain.TimelineEvent) error {
	if _, err := ex.ExecContext(ctx, `
		INSERT INTO order_timeline (order_id, type, status)
		VALUES ($1,$2,$3)
	`, event.OrderID, event.Type, string(event.Status)); err != nil {
		return storeError("append timeline event", err)
	}
	return nil
}

var _ domain.TimelineRepository = (*timelineRepository)(nil)
