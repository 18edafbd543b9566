package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
	"github.com/vladislavdragonenkov/lugx/internal/metrics"
)

// BreakerSettings — параметры circuit breaker вокруг публикации.
type BreakerSettings struct {
	MaxRequests  uint32        // сколько запросов пропускается в half-open
	Interval     time.Duration // окно подсчёта ошибок в closed
	Timeout      time.Duration // время в open до перехода в half-open
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerSettings возвращает настройки по умолчанию.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     15 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

// BreakerPublisher пропускает публикацию через gobreaker: при мёртвом брокере
// outbox worker получает ошибку сразу, а не после таймаутов sarama.
type BreakerPublisher struct {
	next    domain.OutboxPublisher
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerPublisher оборачивает next. infra может быть nil.
func NewBreakerPublisher(name string, next domain.OutboxPublisher, settings BreakerSettings, infra *metrics.InfraMetrics) *BreakerPublisher {
	logger := log.WithFields(log.Fields{"component": "kafka-breaker", "circuit": name})

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= settings.FailureRatio
		},
		OnStateChange: func(cbName string, from, to gobreaker.State) {
			if infra != nil {
				infra.SetBreakerState(cbName, breakerStateValue(to))
			}
			logger.WithFields(log.Fields{
				"from": from.String(),
				"to":   to.String(),
			}).Warn("circuit breaker state changed")
		},
	})

	if infra != nil {
		infra.SetBreakerState(name, metrics.BreakerClosed)
	}

	return &BreakerPublisher{next: next, breaker: cb}
}

// Publish публикует событие, если breaker не разомкнут.
func (p *BreakerPublisher) Publish(ctx context.Context, event domain.OutboxMessage) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.next.Publish(ctx, event)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrOutboxPublish, err)
	}
	return err
}

// State возвращает текущее состояние breaker'а.
func (p *BreakerPublisher) State() gobreaker.State {
	return p.breaker.State()
}

func breakerStateValue(state gobreaker.State) int {
	switch state {
	case gobreaker.StateOpen:
		return metrics.BreakerOpen
	case gobreaker.StateHalfOpen:
		return metrics.BreakerHalfOpen
	default:
		return metrics.BreakerClosed
	}
}

var _ domain.OutboxPublisher = (*BreakerPublisher)(nil)
