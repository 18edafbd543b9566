package httpsvc

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/lugx/internal/metrics"
)

// Имена сервисов в /health и в метках метрик.
const (
	CatalogServiceName = "game-service"
	OrderServiceName   = "order-service"
)

// HealthHandler отвечает {"status":"OK","service":...}.
func HealthHandler(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": service})
	}
}

func newEngine(service string, logger *log.Entry, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), CORS(), AccessLog(logger))
	if httpMetrics != nil {
		engine.Use(httpMetrics.Middleware())
	}
	engine.GET("/health", HealthHandler(service))
	return engine
}

// NewCatalogRouter собирает роутер каталога.
func NewCatalogRouter(games *GameHandlers, httpMetrics *metrics.HTTPMetrics, logger *log.Entry) *gin.Engine {
	engine := newEngine(CatalogServiceName, logger, httpMetrics)

	engine.GET("/games", games.List)
	engine.GET("/games/:id", games.Get)
	engine.POST("/games", games.Create)
	engine.PUT("/games/:id", games.Update)
	engine.DELETE("/games/:id", games.Delete)

	return engine
}

// NewOrderRouter собирает роутер сервиса заказов.
func NewOrderRouter(orders *OrderHandlers, httpMetrics *metrics.HTTPMetrics, logger *log.Entry) *gin.Engine {
	engine := newEngine(OrderServiceName, logger, httpMetrics)

	engine.GET("/orders", orders.List)
	engine.GET("/orders/:id", orders.Get)
	engine.POST("/orders", orders.Create)
	engine.PUT("/orders/:id/status", orders.UpdateStatus)
	if orders.timeline != nil {
		engine.GET("/orders/:id/timeline", orders.Timeline)
	}

	return engine
}
