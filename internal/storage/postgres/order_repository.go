package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

const (
	opTimeout = 5 * time.Second

	orderColumns = `id, customer_email, total_price, status, created_at`
)

// OrderOption настраивает PostgreSQL-репозиторий заказов.
type OrderOption func(*orderRepository)

// WithStatusPolicy задаёт политику проверки статусов для UpdateStatus.
func WithStatusPolicy(policy domain.StatusPolicy) OrderOption {
	return func(r *orderRepository) {
		r.policy = policy
	}
}

// WithOutboxEvents включает запись событий заказа в outbox в той же транзакции.
func WithOutboxEvents(enabled bool) OrderOption {
	return func(r *orderRepository) {
		r.outbox = enabled
	}
}

type orderRepository struct {
	db     *sql.DB
	policy domain.StatusPolicy
	outbox bool
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store, opts ...OrderOption) domain.OrderRepository {
	r := &orderRepository{db: store.DB(), policy: domain.StatusPolicyFreeForm}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create сохраняет заказ, позиции, событие timeline и (если включено) outbox-сообщение
// одной транзакцией, затем перечитывает позиции из базы.
func (r *orderRepository) Create(ctx context.Context, req domain.NewOrder) (domain.Order, error) {
	if err := req.Validate(); err != nil {
		return domain.Order{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	order := domain.Order{
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		TotalPrice:    domain.CalculateTotal(req.Items),
	}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var status string
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO orders (customer_email, total_price)
			VALUES ($1,$2)
			RETURNING id, status, created_at
		`, order.CustomerEmail, order.TotalPrice).Scan(&order.ID, &status, &order.CreatedAt); err != nil {
			return storeError("insert order", err)
		}
		order.Status = domain.OrderStatus(status)

		for idx, item := range req.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, game_name, price, quantity)
				VALUES ($1,$2,$3,$4)
			`, order.ID, item.GameName, item.Price, item.Quantity); err != nil {
				return storeError(fmt.Sprintf("insert order item %d", idx), err)
			}
		}

		if err := appendTimeline(ctx, tx, domain.TimelineEvent{
			OrderID: order.ID,
			Type:    domain.TimelineOrderCreated,
			Status:  order.Status,
		}); err != nil {
			return err
		}

		if !r.outbox {
			return nil
		}
		msg, err := domain.NewOrderCreatedMessage(order, len(req.Items))
		if err != nil {
			return err
		}
		_, err = insertOutboxMessage(ctx, tx, msg)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}

	items, err := r.loadItems(ctx, []int64{order.ID})
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = itemsFor(items, order.ID)

	return order, nil
}

func (r *orderRepository) Get(ctx context.Context, id int64) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	order, err := scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, storeError("select order", err)
	}

	items, err := r.loadItems(ctx, []int64{order.ID})
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = itemsFor(items, order.ID)

	return order, nil
}

// List читает заказы одним запросом и позиции всех заказов вторым, затем раскладывает их по заказам.
func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, storeError("list orders", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, storeError("scan order row", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate order rows", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = itemsFor(items, orders[i].ID)
	}

	return orders, nil
}

// UpdateStatus меняет статус, пишет событие timeline и outbox-сообщение в одной транзакции.
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error) {
	if err := r.policy.Validate(status); err != nil {
		return domain.Order{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var order domain.Order
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		order, err = scanOrder(tx.QueryRowContext(ctx, `
			UPDATE orders
			SET status = $2
			WHERE id = $1
			RETURNING `+orderColumns,
			id, string(status),
		))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrOrderNotFound
			}
			return storeError("update order status", err)
		}

		if err := appendTimeline(ctx, tx, domain.TimelineEvent{
			OrderID: order.ID,
			Type:    domain.TimelineStatusChanged,
			Status:  order.Status,
		}); err != nil {
			return err
		}

		if !r.outbox {
			return nil
		}
		msg, err := domain.NewOrderStatusChangedMessage(order.ID, order.Status, time.Now())
		if err != nil {
			return err
		}
		_, err = insertOutboxMessage(ctx, tx, msg)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

// loadItems читает позиции указанных заказов в порядке вставки и группирует по order_id.
func (r *orderRepository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, game_name, price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id
	`, orderIDs)
	if err != nil {
		return nil, storeError("load order items", err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.GameName, &item.Price, &item.Quantity); err != nil {
			return nil, storeError("scan order item", err)
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate order items", err)
	}

	return result, nil
}

// itemsFor никогда не возвращает nil: у заказа без позиций в JSON будет [].
func itemsFor(byOrder map[int64][]domain.OrderItem, orderID int64) []domain.OrderItem {
	if items, ok := byOrder[orderID]; ok {
		return items
	}
	return []domain.OrderItem{}
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	if err := row.Scan(&order.ID, &order.CustomerEmail, &order.TotalPrice, &status, &order.CreatedAt); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)
	return order, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
