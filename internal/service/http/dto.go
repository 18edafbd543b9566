package httpsvc

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

// Money сериализуется JSON-числом ровно с двумя знаками после запятой (44.98, 0.00).
// При разборе принимает и число, и строку.
type Money decimal.Decimal

// NewMoney оборачивает decimal.
func NewMoney(d decimal.Decimal) Money { return Money(d) }

// Decimal возвращает значение как decimal.Decimal.
func (m Money) Decimal() decimal.Decimal { return decimal.Decimal(m) }

// MarshalJSON реализует json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

// UnmarshalJSON реализует json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = Money(d)
	return nil
}

// GameRequest описывает тело POST /games и PUT /games/:id.
type GameRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	ReleaseDate string `json:"release_date"`
	Price       Money  `json:"price"`
}

func (r GameRequest) toInput() (domain.GameInput, error) {
	releaseDate, err := domain.ParseReleaseDate(r.ReleaseDate)
	if err != nil {
		return domain.GameInput{}, err
	}
	return domain.GameInput{
		Name:        r.Name,
		Category:    r.Category,
		ReleaseDate: releaseDate,
		Price:       r.Price.Decimal(),
	}, nil
}

// GameResponse описывает игру в ответах каталога.
type GameResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	ReleaseDate string    `json:"release_date"`
	Price       Money     `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

func newGameResponse(g domain.Game) GameResponse {
	return GameResponse{
		ID:          g.ID,
		Name:        g.Name,
		Category:    g.Category,
		ReleaseDate: g.ReleaseDate.Format(domain.ReleaseDateLayout),
		Price:       Money(g.Price),
		CreatedAt:   g.CreatedAt,
	}
}

// OrderItemRequest описывает позицию в теле POST /orders. Quantity необязателен.
type OrderItemRequest struct {
	GameName string `json:"game_name"`
	Price    Money  `json:"price"`
	Quantity *int   `json:"quantity,omitempty"`
}

// CreateOrderRequest описывает тело POST /orders.
type CreateOrderRequest struct {
	CustomerEmail string             `json:"customer_email"`
	Items         []OrderItemRequest `json:"items"`
}

func (r CreateOrderRequest) toNewOrder() domain.NewOrder {
	items := make([]domain.NewOrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		quantity := domain.DefaultItemQuantity
		if item.Quantity != nil {
			quantity = *item.Quantity
		}
		items = append(items, domain.NewOrderItem{
			GameName: item.GameName,
			Price:    item.Price.Decimal(),
			Quantity: quantity,
		})
	}
	return domain.NewOrder{CustomerEmail: r.CustomerEmail, Items: items}
}

// UpdateStatusRequest описывает тело PUT /orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// OrderItemResponse описывает сохранённую позицию заказа.
type OrderItemResponse struct {
	ID       int64  `json:"id"`
	OrderID  int64  `json:"order_id"`
	GameName string `json:"game_name"`
	Price    Money  `json:"price"`
	Quantity int    `json:"quantity"`
}

// OrderRowResponse описывает строку заказа без позиций в ответе на смену статуса.
type OrderRowResponse struct {
	ID            int64     `json:"id"`
	CustomerEmail string    `json:"customer_email"`
	TotalPrice    Money     `json:"total_price"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderResponse описывает заказ с вложенными позициями; items всегда массив.
type OrderResponse struct {
	OrderRowResponse
	Items []OrderItemResponse `json:"items"`
}

func newOrderResponse(o domain.Order) OrderResponse {
	resp := OrderResponse{
		OrderRowResponse: newOrderRowResponse(o),
		Items:            make([]OrderItemResponse, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:       item.ID,
			OrderID:  item.OrderID,
			GameName: item.GameName,
			Price:    Money(item.Price),
			Quantity: item.Quantity,
		})
	}
	return resp
}

func newOrderRowResponse(o domain.Order) OrderRowResponse {
	return OrderRowResponse{
		ID:            o.ID,
		CustomerEmail: o.CustomerEmail,
		TotalPrice:    Money(o.TotalPrice),
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
}

// TimelineEventResponse описывает событие жизненного цикла заказа.
type TimelineEventResponse struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"order_id"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newTimelineResponse(events []domain.TimelineEvent) []TimelineEventResponse {
	resp := make([]TimelineEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, TimelineEventResponse{
			ID:         e.ID,
			OrderID:    e.OrderID,
			Type:       e.Type,
			Status:     string(e.Status),
			OccurredAt: e.OccurredAt,
		})
	}
	return resp
}
