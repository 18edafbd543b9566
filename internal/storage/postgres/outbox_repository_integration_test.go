package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

func TestOutboxRepository_PostgresFlow(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOutboxRepository(store)
	ctx := context.Background()

	stored1, err := repo.Enqueue(ctx, domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   "1",
		EventType:     domain.EventOrderCreated,
		Payload:       []byte(`{"order_id":1}`),
	})
	if err != nil {
		t.Fatalf("enqueue msg without id: %v", err)
	}
	if stored1.ID == "" {
		t.Fatal("expected generated id for outbox message")
	}

	fixedID := uuid.NewString()
	stored2, err := repo.Enqueue(ctx, domain.OutboxMessage{
		ID:            fixedID,
		AggregateType: "order",
		AggregateID:   "2",
		EventType:     domain.EventOrderStatusChanged,
		Payload:       []byte(`{"order_id":2}`),
	})
	if err != nil {
		t.Fatalf("enqueue msg with id: %v", err)
	}
	if stored2.ID != fixedID {
		t.Fatalf("expected fixed id %q, got %q", fixedID, stored2.ID)
	}

	if _, err := repo.Enqueue(ctx, domain.OutboxMessage{ID: fixedID, AggregateType: "order", AggregateID: "2", EventType: "dup", Payload: []byte(`{}`)}); !errors.Is(err, domain.ErrOutboxPublish) {
		t.Fatalf("expected duplicate enqueue to fail, got %v", err)
	}

	pending, err := repo.PullPending(ctx, 0)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending messages, got %d", len(pending))
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats before marks: %v", err)
	}
	if stats.PendingCount != 2 || stats.OldestPendingAt.IsZero() {
		t.Fatalf("unexpected stats before marks: %+v", stats)
	}

	if err := repo.MarkSent(ctx, stored1.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if err := repo.MarkFailed(ctx, stored2.ID); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	stats, err = repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats after marks: %v", err)
	}
	if stats.PendingCount != 0 || !stats.OldestPendingAt.IsZero() {
		t.Fatalf("unexpected stats after marks: %+v", stats)
	}

	if err := repo.MarkSent(ctx, uuid.NewString()); !errors.Is(err, domain.ErrOutboxPublish) {
		t.Fatalf("expected ErrOutboxPublish for missing message, got %v", err)
	}

	if _, err := repo.Enqueue(ctx, domain.OutboxMessage{AggregateType: "order", AggregateID: "3", EventType: domain.EventOrderCreated, Payload: []byte(`{"order_id":3}`)}); err != nil {
		t.Fatalf("enqueue pending msg: %v", err)
	}

	cleaner, ok := repo.(domain.OutboxCleaner)
	if !ok {
		t.Fatal("postgres outbox repository must implement domain.OutboxCleaner")
	}
	deleted, err := cleaner.DeleteProcessedBefore(ctx, time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("delete processed before past cutoff: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected nothing older than cutoff, deleted %d", deleted)
	}

	deleted, err = cleaner.DeleteProcessedBefore(ctx, time.Now().Add(time.Hour), 1)
	if err != nil {
		t.Fatalf("delete processed first batch: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected limit to cap deletion at 1, got %d", deleted)
	}
	deleted, err = cleaner.DeleteProcessedBefore(ctx, time.Now().Add(time.Hour), 10)
	if err != nil {
		t.Fatalf("delete processed second batch: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected second processed message deleted, got %d", deleted)
	}

	pending, err = repo.PullPending(ctx, 0)
	if err != nil {
		t.Fatalf("pull pending after cleanup: %v", err)
	}
	if len(pending) != 1 || pending[0].AggregateID != "3" {
		t.Fatalf("expected pending message to survive cleanup, got %+v", pending)
	}
}
