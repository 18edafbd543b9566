package httpsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
	"github.com/vladislavdragonenkov/lugx/internal/metrics"
	"github.com/vladislavdragonenkov/lugx/internal/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return log.NewEntry(logger)
}

func newTestCatalogRouter(repo domain.GameRepository) *gin.Engine {
	reg := prometheus.NewRegistry()
	return NewCatalogRouter(NewGameHandlers(repo, testLogger()), metrics.NewHTTPMetrics(reg, CatalogServiceName), testLogger())
}

func newTestOrderRouter(repo domain.OrderRepository, timeline domain.TimelineRepository) (*gin.Engine, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	handlers := NewOrderHandlers(repo, timeline, metrics.NewOrderMetrics(reg), testLogger())
	return NewOrderRouter(handlers, metrics.NewHTTPMetrics(reg, OrderServiceName), testLogger()), reg
}

// counterTotal суммирует значения счётчика name по всем меткам.
func counterTotal(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		total := 0.0
		for _, m := range family.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	return 0
}

func newMemoryOrderRouter() (*gin.Engine, *memory.OrderRepository) {
	repo := memory.NewOrderRepository()
	router, _ := newTestOrderRouter(repo, repo.Timeline())
	return router, repo
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeJSON[errorResponse](t, rec).Error
}

var errStoreDown = errors.New("dial tcp 10.0.0.5:5432: connection refused")

// failingGameRepo и failingOrderRepo имитируют недоступное хранилище.
type failingGameRepo struct{}

func (failingGameRepo) Create(context.Context, domain.GameInput) (domain.Game, error) {
	return domain.Game{}, domain.PersistenceError("insert game", errStoreDown)
}

func (failingGameRepo) List(context.Context) ([]domain.Game, error) {
	return nil, domain.PersistenceError("list games", errStoreDown)
}

func (failingGameRepo) Get(context.Context, int64) (domain.Game, error) {
	return domain.Game{}, domain.PersistenceError("get game", errStoreDown)
}

func (failingGameRepo) Update(context.Context, int64, domain.GameInput) (domain.Game, error) {
	return domain.Game{}, domain.PersistenceError("update game", errStoreDown)
}

func (failingGameRepo) Delete(context.Context, int64) error {
	return domain.PersistenceError("delete game", errStoreDown)
}

type failingOrderRepo struct{}

func (failingOrderRepo) Create(_ context.Context, req domain.NewOrder) (domain.Order, error) {
	if err := req.Validate(); err != nil {
		return domain.Order{}, err
	}
	return domain.Order{}, domain.PersistenceError("insert order", errStoreDown)
}

func (failingOrderRepo) Get(context.Context, int64) (domain.Order, error) {
	return domain.Order{}, domain.PersistenceError("get order", errStoreDown)
}

func (failingOrderRepo) List(context.Context) ([]domain.Order, error) {
	return nil, domain.PersistenceError("list orders", errStoreDown)
}

func (failingOrderRepo) UpdateStatus(context.Context, int64, domain.OrderStatus) (domain.Order, error) {
	return domain.Order{}, domain.PersistenceError("update status", errStoreDown)
}

func doRequestWithHeader(t *testing.T, router http.Handler, method, path, header, value string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(header, value)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func newMemoryOrderRouterWithRegistry() (*gin.Engine, *prometheus.Registry) {
	repo := memory.NewOrderRepository()
	return newTestOrderRouter(repo, repo.Timeline())
}
