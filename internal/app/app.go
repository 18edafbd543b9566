package app

import (
	"context"
	"fmt"
	"net"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/lugx/internal/health"
	"github.com/vladislavdragonenkov/lugx/internal/metrics"
	httpsvc "github.com/vladislavdragonenkov/lugx/internal/service/http"
	"github.com/vladislavdragonenkov/lugx/internal/version"
)

// Run поднимает сервис cfg.Service и блокируется до отмены ctx.
// При остановке HTTP-сервер дренируется, затем останавливается outbox worker,
// закрываются Kafka producer, кэш и пул соединений.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithFields(log.Fields{"component": "app", "service": cfg.Service})

	if cfg.Service != httpsvc.CatalogServiceName && cfg.Service != httpsvc.OrderServiceName {
		return fmt.Errorf("unknown service %q", cfg.Service)
	}

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.close(logger)

	infra := metrics.NewInfraMetrics(nil)
	httpMetrics := metrics.NewHTTPMetrics(nil, cfg.Service)
	httpLogger := logger.WithField("layer", "http")

	healthHandler := healthcheck.NewHandler(cfg.Service, version.GetVersion())
	if deps.storageChecker != nil {
		healthHandler.RegisterChecker("storage", deps.storageChecker)
	}

	var router http.Handler
	switch cfg.Service {
	case httpsvc.CatalogServiceName:
		cached := initGameCache(ctx, cfg, deps.games, infra, logger)
		if cached.checker != nil {
			healthHandler.RegisterChecker("cache", cached.checker)
		}
		if cached.closeFn != nil {
			defer func() {
				if err := cached.closeFn(); err != nil {
					logger.WithError(err).Warn("failed to close redis client")
				}
			}()
		}
		router = httpsvc.NewCatalogRouter(httpsvc.NewGameHandlers(cached.games, httpLogger), httpMetrics, httpLogger)

	case httpsvc.OrderServiceName:
		producer, err := initKafkaProducer(cfg, logger)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, order events stay pending in outbox")
		}
		defer closeKafkaProducer(producer, logger)

		if producer != nil && deps.outboxRepo != nil {
			worker := newOutboxWorker(cfg, deps.outboxRepo, producer, infra, logger)
			// воркер переживает отмену ctx, чтобы забрать события запросов, завершающихся при дренаже
			workerCtx, cancelWorker := context.WithCancel(context.WithoutCancel(ctx))
			done := make(chan struct{})
			go func() {
				defer close(done)
				worker.Run(workerCtx)
			}()
			defer shutdownWorker("outbox worker", cancelWorker, done, logger)
		}

		if cleaner, ok := deps.outboxRepo.(domain.OutboxCleaner); ok && cfg.OutboxRetention > 0 {
			cleanup := newOutboxCleanupWorker(cfg, cleaner, logger)
			cleanupCtx, cancelCleanup := context.WithCancel(ctx)
			cleanupDone := make(chan struct{})
			go func() {
				defer close(cleanupDone)
				cleanup.Run(cleanupCtx)
			}()
			defer shutdownWorker("outbox cleanup worker", cancelCleanup, cleanupDone, logger)
		}

		handlers := httpsvc.NewOrderHandlers(deps.orders, deps.timelineRepo, metrics.NewOrderMetrics(nil), httpLogger)
		router = httpsvc.NewOrderRouter(handlers, httpMetrics, httpLogger)
	}

	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)
	}

	lis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.HTTPAddr, err)
	}

	logger.WithFields(log.Fields{
		"http_addr":      cfg.HTTPAddr,
		"storage_driver": cfg.StorageDriver,
		"status_policy":  cfg.StatusPolicy,
		"events":         cfg.EventsEnabled(),
		"version":        version.String(),
	}).Info("service started")

	return serveHTTP(ctx, lis, router, cfg.ShutdownTimeout, logger)
}
