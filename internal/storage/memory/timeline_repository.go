package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

// timelineRepositoryInMemory хранит события в памяти (для разработки/тестов).
// Пишет в него только OrderRepository.
type timelineRepositoryInMemory struct {
	mu     sync.RWMutex
	nextID int64
	events map[int64][]domain.TimelineEvent
}

func newTimelineRepository() *timelineRepositoryInMemory {
	return &timelineRepositoryInMemory{events: make(map[int64][]domain.TimelineEvent)}
}

// append добавляет событие; события одного заказа приходят уже в хронологическом порядке.
func (r *timelineRepositoryInMemory) append(event domain.TimelineEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	event.ID = r.nextID
	r.events[event.OrderID] = append(r.events[event.OrderID], event)
}

// List возвращает события заказа в хронологическом порядке.
func (r *timelineRepositoryInMemory) List(_ context.Context, orderID int64) ([]domain.TimelineEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.events[orderID]
	result := make([]domain.TimelineEvent, len(events))
	copy(result, events)
	return result, nil
}

var _ domain.TimelineRepository = (*timelineRepositoryInMemory)(nil)
