package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

// OrderOption настраивает in-memory репозиторий заказов.
type OrderOption func(*OrderRepository)

// WithStatusPolicy задаёт политику проверки статусов.
func WithStatusPolicy(policy domain.StatusPolicy) OrderOption {
	return func(r *OrderRepository) {
		r.policy = policy
	}
}

// WithOutbox включает запись событий заказа в outbox.
func WithOutbox(outbox domain.OutboxRepository) OrderOption {
	return func(r *OrderRepository) {
		r.outbox = outbox
	}
}

// OrderRepository — in-memory реализация domain.OrderRepository.
// Вся запись идёт под одним мьютексом, поэтому заказ и его позиции появляются одновременно.
type OrderRepository struct {
	mu        sync.RWMutex
	nextOrder int64
	nextItem  int64
	orders    map[int64]domain.Order
	timeline  *timelineRepositoryInMemory
	outbox    domain.OutboxRepository
	policy    domain.StatusPolicy
	now       func() time.Time
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository(opts ...OrderOption) *OrderRepository {
	r := &OrderRepository{
		orders:   make(map[int64]domain.Order),
		timeline: newTimelineRepository(),
		policy:   domain.StatusPolicyFreeForm,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Timeline возвращает события, записанные этим репозиторием.
func (r *OrderRepository) Timeline() domain.TimelineRepository {
	return r.timeline
}

// Create атомарно сохраняет заказ с позициями.
func (r *OrderRepository) Create(ctx context.Context, req domain.NewOrder) (domain.Order, error) {
	if err := req.Validate(); err != nil {
		return domain.Order{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order := domain.Order{
		ID:            r.nextOrder + 1,
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		TotalPrice:    domain.CalculateTotal(req.Items),
		Status:        domain.OrderStatusPending,
		CreatedAt:     r.now(),
		Items:         make([]domain.OrderItem, 0, len(req.Items)),
	}
	for idx, item := range req.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:       r.nextItem + int64(idx) + 1,
			OrderID:  order.ID,
			GameName: item.GameName,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	if r.outbox != nil {
		msg, err := domain.NewOrderCreatedMessage(order, len(order.Items))
		if err != nil {
			return domain.Order{}, err
		}
		if _, err := r.outbox.Enqueue(ctx, msg); err != nil {
			return domain.Order{}, domain.PersistenceError("enqueue order.created", err)
		}
	}

	r.nextOrder = order.ID
	r.nextItem += int64(len(order.Items))
	r.orders[order.ID] = order
	r.timeline.append(domain.TimelineEvent{
		OrderID:    order.ID,
		Type:       domain.TimelineOrderCreated,
		Status:     order.Status,
		OccurredAt: order.CreatedAt,
	})

	return cloneOrder(order), nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *OrderRepository) Get(_ context.Context, id int64) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// List возвращает все заказы, новые первыми.
func (r *OrderRepository) List(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, cloneOrder(order))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

// UpdateStatus меняет только статус заказа.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error) {
	if err := r.policy.Validate(status); err != nil {
		return domain.Order{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	now := r.now()
	if r.outbox != nil {
		msg, err := domain.NewOrderStatusChangedMessage(id, status, now)
		if err != nil {
			return domain.Order{}, err
		}
		if _, err := r.outbox.Enqueue(ctx, msg); err != nil {
			return domain.Order{}, domain.PersistenceError("enqueue order.status_changed", err)
		}
	}

	order.Status = status
	r.orders[id] = order
	r.timeline.append(domain.TimelineEvent{
		OrderID:    id,
		Type:       domain.TimelineStatusChanged,
		Status:     status,
		OccurredAt: now,
	})

	row := order
	row.Items = nil
	return row, nil
}

func cloneOrder(order domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}

var _ domain.OrderRepository = (*OrderRepository)(nil)
