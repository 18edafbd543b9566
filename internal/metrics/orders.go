package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики создания и обновления заказов.
type OrderMetrics struct {
	created        prometheus.Counter
	rejected       prometheus.Counter
	failed         prometheus.Counter
	createDuration prometheus.Histogram
	itemsPerOrder  prometheus.Histogram
	statusUpdates  *prometheus.CounterVec
}

// NewOrderMetrics регистрирует метрики заказов в registerer (nil — DefaultRegisterer).
func NewOrderMetrics(registerer prometheus.Registerer) *OrderMetrics {
	return &OrderMetrics{
		created: newCounter(registerer, prometheus.CounterOpts{
			Name: "lugx_orders_created_total",
			Help: "Total number of orders committed",
		}),
		rejected: newCounter(registerer, prometheus.CounterOpts{
			Name: "lugx_orders_rejected_total",
			Help: "Total number of order requests rejected by validation",
		}),
		failed: newCounter(registerer, prometheus.CounterOpts{
			Name: "lugx_orders_failed_total",
			Help: "Total number of order creations rolled back by a store failure",
		}),
		createDuration: newHistogram(registerer, prometheus.HistogramOpts{
			Name:    "lugx_order_create_duration_seconds",
			Help:    "Duration of the order creation transaction in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		itemsPerOrder: newHistogram(registerer, prometheus.HistogramOpts{
			Name:    "lugx_order_items_per_order",
			Help:    "Number of line items per created order",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
		}),
		statusUpdates: newCounterVec(registerer, prometheus.CounterOpts{
			Name: "lugx_order_status_updates_total",
			Help: "Total number of order status updates grouped by result",
		}, "result"),
	}
}

// RecordCreated фиксирует успешно созданный заказ.
func (m *OrderMetrics) RecordCreated(items int, duration time.Duration) {
	m.created.Inc()
	m.itemsPerOrder.Observe(float64(items))
	m.createDuration.Observe(duration.Seconds())
}

// RecordRejected фиксирует запрос, отклонённый валидацией.
func (m *OrderMetrics) RecordRejected() {
	m.rejected.Inc()
}

// RecordFailed фиксирует откат транзакции создания.
func (m *OrderMetrics) RecordFailed(duration time.Duration) {
	m.failed.Inc()
	m.createDuration.Observe(duration.Seconds())
}

// RecordStatusUpdate фиксирует результат смены статуса: updated, not_found, invalid, error.
func (m *OrderMetrics) RecordStatusUpdate(result string) {
	m.statusUpdates.WithLabelValues(result).Inc()
}
