package httpsvc

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
	"github.com/vladislavdragonenkov/lugx/internal/metrics"
)

// OrderHandlers обслуживает /orders.
type OrderHandlers struct {
	repo     domain.OrderRepository
	timeline domain.TimelineRepository
	metrics  *metrics.OrderMetrics
	logger   *log.Entry
}

// NewOrderHandlers создаёт обработчики заказов. timeline может быть nil,
// тогда /orders/:id/timeline не регистрируется.
func NewOrderHandlers(repo domain.OrderRepository, timeline domain.TimelineRepository, m *metrics.OrderMetrics, logger *log.Entry) *OrderHandlers {
	if logger == nil {
		logger = log.WithField("component", "order-handlers")
	}
	if m == nil {
		m = metrics.NewOrderMetrics(nil)
	}
	return &OrderHandlers{repo: repo, timeline: timeline, metrics: m, logger: logger}
}

// List обрабатывает GET /orders.
func (h *OrderHandlers) List(c *gin.Context) {
	orders, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, msgOrderNotFound, "Failed to list orders")
		return
	}

	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, newOrderResponse(o))
	}
	c.JSON(http.StatusOK, resp)
}

// Get обрабатывает GET /orders/:id.
func (h *OrderHandlers) Get(c *gin.Context) {
	id, ok := parseID(c, msgInvalidOrderID)
	if !ok {
		return
	}

	order, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, msgOrderNotFound, "Failed to get order")
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(order))
}

// Create обрабатывает POST /orders.
func (h *OrderHandlers) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordRejected()
		badRequest(c, msgInvalidBody)
		return
	}

	start := time.Now()
	order, err := h.repo.Create(c.Request.Context(), req.toNewOrder())
	if err != nil {
		if domain.IsValidation(err) {
			h.metrics.RecordRejected()
		} else {
			h.metrics.RecordFailed(time.Since(start))
		}
		respondError(c, h.logger, err, msgOrderNotFound, "Failed to create order")
		return
	}
	h.metrics.RecordCreated(len(order.Items), time.Since(start))

	requestLogger(c, h.logger).WithFields(log.Fields{
		"order_id":    order.ID,
		"items":       len(order.Items),
		"total_price": order.TotalPrice.StringFixed(2),
	}).Info("order created")

	c.JSON(http.StatusCreated, newOrderResponse(order))
}

// UpdateStatus обрабатывает PUT /orders/:id/status и возвращает строку заказа без позиций.
func (h *OrderHandlers) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, msgInvalidOrderID)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordStatusUpdate("invalid")
		badRequest(c, msgInvalidBody)
		return
	}

	order, err := h.repo.UpdateStatus(c.Request.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case domain.IsNotFound(err):
			h.metrics.RecordStatusUpdate("not_found")
		case domain.IsValidation(err):
			h.metrics.RecordStatusUpdate("invalid")
		default:
			h.metrics.RecordStatusUpdate("error")
		}
		respondError(c, h.logger, err, msgOrderNotFound, "Failed to update order status")
		return
	}
	h.metrics.RecordStatusUpdate("updated")

	c.JSON(http.StatusOK, newOrderRowResponse(order))
}

// Timeline обрабатывает GET /orders/:id/timeline.
func (h *OrderHandlers) Timeline(c *gin.Context) {
	id, ok := parseID(c, msgInvalidOrderID)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.repo.Get(ctx, id); err != nil {
		respondError(c, h.logger, err, msgOrderNotFound, "Failed to get order timeline")
		return
	}

	events, err := h.timeline.List(ctx, id)
	if err != nil {
		respondError(c, h.logger, err, msgOrderNotFound, "Failed to get order timeline")
		return
	}
	c.JSON(http.StatusOK, newTimelineResponse(events))
}
