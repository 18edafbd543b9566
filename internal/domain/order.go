package domain

import (
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает состояние заказа. Хранится как произвольная строка,
// набор ниже содержит известные значения.
type OrderStatus string

const (
	// OrderStatusPending выставляется сразу после создания.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPaid: заказ оплачен.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusShipped: заказ передан в доставку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered: заказ получен клиентом.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled: заказ отменён.
	OrderStatusCancelled OrderStatus = "cancelled"
)

const (
	// DefaultItemQuantity используется, если количество в позиции не указано.
	DefaultItemQuantity = 1

	maxEmailLength = 255
	// maxItemQuantity совпадает с диапазоном INTEGER колонки order_items.quantity.
	maxItemQuantity = math.MaxInt32
)

// maxPrice ограничивает NUMERIC(10,2) сверху: и цену позиции, и итог заказа.
var maxPrice = decimal.New(1, 8)

// OrderItem представляет одну сохранённую позицию заказа.
type OrderItem struct {
	ID      int64
	OrderID int64
	// GameName — денормализованная копия названия из каталога, без внешнего ключа на games.
	GameName string
	Price    decimal.Decimal
	Quantity int
}

// Subtotal возвращает price × quantity позиции.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order агрегирует строку заказа и его позиции.
type Order struct {
	ID            int64
	CustomerEmail string
	TotalPrice    decimal.Decimal
	Status        OrderStatus
	CreatedAt     time.Time
	Items         []OrderItem
}

// NewOrderItem описывает позицию в запросе на создание заказа.
type NewOrderItem struct {
	GameName string
	Price    decimal.Decimal
	Quantity int
}

// NewOrder описывает запрос на атомарное создание заказа вместе с позициями.
type NewOrder struct {
	CustomerEmail string
	Items         []NewOrderItem
}

// Validate проверяет запрос до открытия транзакции.
// Длина game_name намеренно не ограничивается здесь: это делает схема БД.
func (n NewOrder) Validate() error {
	email := strings.TrimSpace(n.CustomerEmail)
	if email == "" {
		return NewValidationError("customer_email", "is required")
	}
	if utf8.RuneCountInString(email) > maxEmailLength {
		return NewValidationError("customer_email", "is too long")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return NewValidationError("customer_email", "must be a valid email address")
	}
	if len(n.Items) == 0 {
		return NewValidationError("items", "order must contain at least one item")
	}

	for idx, item := range n.Items {
		field := "items[" + strconv.Itoa(idx) + "]"
		if strings.TrimSpace(item.GameName) == "" {
			return NewValidationError(field+".game_name", "is required")
		}
		if err := validatePrice(field+".price", item.Price, false); err != nil {
			return err
		}
		if item.Quantity <= 0 {
			return NewValidationError(field+".quantity", "must be greater than zero")
		}
		if item.Quantity > maxItemQuantity {
			return NewValidationError(field+".quantity", "is too large")
		}
	}

	if CalculateTotal(n.Items).GreaterThanOrEqual(maxPrice) {
		return NewValidationError("items", "order total is too large")
	}

	return nil
}

// CalculateTotal считает сумму price × quantity по всем позициям в точной десятичной арифметике.
func CalculateTotal(items []NewOrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ItemsTotal считает сумму уже сохранённых позиций.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// validatePrice проверяет, что цена помещается в NUMERIC(10,2) без округления.
func validatePrice(field string, price decimal.Decimal, allowZero bool) error {
	if price.IsNegative() || (!allowZero && price.IsZero()) {
		if allowZero {
			return NewValidationError(field, "must not be negative")
		}
		return NewValidationError(field, "must be greater than zero")
	}
	if !price.Equal(price.Round(2)) {
		return NewValidationError(field, "must have at most two decimal places")
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return NewValidationError(field, "is too large")
	}
	return nil
}
