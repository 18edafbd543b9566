package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Состояния circuit breaker в метрике lugx_circuit_breaker_state.
const (
	BreakerClosed   = 0
	BreakerOpen     = 1
	BreakerHalfOpen = 2
)

// InfraMetrics — метрики инфраструктурных зависимостей: кэш и circuit breaker.
type InfraMetrics struct {
	cacheLookups *prometheus.CounterVec
	breakerState *prometheus.GaugeVec
}

// NewInfraMetrics регистрирует инфраструктурные метрики.
func NewInfraMetrics(registerer prometheus.Registerer) *InfraMetrics {
	return &InfraMetrics{
		cacheLookups: newCounterVec(registerer, prometheus.CounterOpts{
			Name: "lugx_game_cache_lookups_total",
			Help: "Game cache lookups grouped by result (hit, miss, error)",
		}, "result"),
		breakerState: newGaugeVec(registerer, prometheus.GaugeOpts{
			Name: "lugx_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		}, "breaker"),
	}
}

// CacheLookups отдаёт счётчик для декоратора кэша.
func (m *InfraMetrics) CacheLookups() *prometheus.CounterVec {
	return m.cacheLookups
}

// SetBreakerState выставляет состояние breaker'а name.
func (m *InfraMetrics) SetBreakerState(name string, state int) {
	m.breakerState.WithLabelValues(name).Set(float64(state))
}
