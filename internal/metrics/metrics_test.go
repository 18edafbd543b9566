package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()

	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestOrderMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)

	m.RecordCreated(3, 20*time.Millisecond)
	m.RecordCreated(1, 10*time.Millisecond)
	m.RecordRejected()
	m.RecordFailed(5 * time.Millisecond)
	m.RecordStatusUpdate("updated")
	m.RecordStatusUpdate("not_found")
	m.RecordStatusUpdate("updated")

	if got := counterValue(t, m.created); got != 2 {
		t.Fatalf("expected 2 created, got %v", got)
	}
	if got := counterValue(t, m.rejected); got != 1 {
		t.Fatalf("expected 1 rejected, got %v", got)
	}
	if got := counterValue(t, m.failed); got != 1 {
		t.Fatalf("expected 1 failed, got %v", got)
	}
	if got := histogramCount(t, m.createDuration); got != 3 {
		t.Fatalf("expected 3 duration samples, got %d", got)
	}
	if got := histogramCount(t, m.itemsPerOrder); got != 2 {
		t.Fatalf("expected 2 item samples, got %d", got)
	}
	if got := counterValue(t, m.statusUpdates.WithLabelValues("updated")); got != 2 {
		t.Fatalf("expected 2 status updates, got %v", got)
	}
}

func TestRegister_ReusesExistingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewOrderMetrics(reg)
	second := NewOrderMetrics(reg)

	first.RecordRejected()
	if got := counterValue(t, second.rejected); got != 1 {
		t.Fatalf("expected shared collector, got %v", got)
	}
}

func TestRegister_PanicsOnTypeMismatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	newCounterVec(reg, prometheus.CounterOpts{Name: "lugx_conflict_total", Help: "x"}, "a")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on type mismatch")
		}
	}()
	newCounter(reg, prometheus.CounterOpts{Name: "lugx_conflict_total", Help: "x"})
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "order-service")

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/orders/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	for _, path := range []string{"/orders/1", "/orders/2", "/missing"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := counterValue(t, m.requests.WithLabelValues("order-service", "GET", "/orders/:id", "404")); got != 2 {
		t.Fatalf("expected 2 requests for route template, got %v", got)
	}
	if got := counterValue(t, m.requests.WithLabelValues("order-service", "GET", "unmatched", "404")); got != 1 {
		t.Fatalf("expected 1 unmatched request, got %v", got)
	}
}

func TestInfraMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewInfraMetrics(reg)

	m.CacheLookups().WithLabelValues("hit").Inc()
	m.SetBreakerState("kafka-outbox", BreakerOpen)

	if got := counterValue(t, m.cacheLookups.WithLabelValues("hit")); got != 1 {
		t.Fatalf("expected 1 hit, got %v", got)
	}

	var g dto.Metric
	if err := m.breakerState.WithLabelValues("kafka-outbox").Write(&g); err != nil {
		t.Fatalf("write gauge: %v", err)
	}
	if g.GetGauge().GetValue() != BreakerOpen {
		t.Fatalf("expected open state, got %v", g.GetGauge().GetValue())
	}
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()

	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("write gauge: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestOutboxMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOutboxMetrics(reg)

	m.RecordPublish(OutboxSent)
	m.RecordPublish(OutboxRetryError)
	m.RecordPublish(OutboxSent)
	m.SetBacklog(3, time.Now().Add(-10*time.Second))

	if got := counterValue(t, m.publishAttempts.WithLabelValues(OutboxSent)); got != 2 {
		t.Fatalf("expected 2 sent, got %v", got)
	}
	if got := gaugeValue(t, m.pendingRecords); got != 3 {
		t.Fatalf("expected 3 pending, got %v", got)
	}
	if got := gaugeValue(t, m.oldestPendingAge); got < 10 {
		t.Fatalf("expected age >= 10s, got %v", got)
	}

	m.SetBacklog(0, time.Time{})
	if got := gaugeValue(t, m.oldestPendingAge); got != 0 {
		t.Fatalf("expected age reset, got %v", got)
	}
}
