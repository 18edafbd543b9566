package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/lugx/internal/health"
	"github.com/vladislavdragonenkov/lugx/internal/storage/memory"
	"github.com/vladislavdragonenkov/lugx/internal/storage/postgres"
)

// runtimeDependencies собирает репозитории выбранного хранилища.
type runtimeDependencies struct {
	games          domain.GameRepository
	orders         domain.OrderRepository
	timelineRepo   domain.TimelineRepository
	outboxRepo     domain.OutboxRepository // nil, если события заказов отключены
	storageChecker healthcheck.Checker
	closeFn        func() error
}

func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory:
		return initMemoryDependencies(cfg, logger), nil
	case StorageDriverPostgres:
		return initPostgresDependencies(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func initMemoryDependencies(cfg Config, logger *log.Entry) *runtimeDependencies {
	deps := &runtimeDependencies{games: memory.NewGameRepository()}

	opts := []memory.OrderOption{memory.WithStatusPolicy(cfg.StatusPolicy)}
	if cfg.EventsEnabled() {
		outbox := memory.NewOutboxRepository()
		deps.outboxRepo = outbox
		opts = append(opts, memory.WithOutbox(outbox))
	}
	orders := memory.NewOrderRepository(opts...)
	deps.orders = orders
	deps.timelineRepo = orders.Timeline()

	logger.Warn("using in-memory storage, data is lost on restart")
	return deps
}

func initPostgresDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("%s is required for storage driver %q", EnvPostgresDSN, StorageDriverPostgres)
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN,
		postgres.WithMaxOpenConns(cfg.PostgresMaxOpenConns),
		postgres.WithMaxIdleConns(cfg.PostgresMaxIdleConns),
	)
	if err != nil {
		return nil, err
	}

	if cfg.PostgresAutoMigrate {
		if err := store.MigrateUp(ctx, 0); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		status, err := store.Status(ctx)
		if err == nil {
			logger.WithField("schema_version", status.CurrentVersion).Info("postgres migrations applied")
		}
	}

	if err := prometheus.Register(collectors.NewDBStatsCollector(store.DB(), "lugx")); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if !errors.As(err, &alreadyRegistered) {
			logger.WithError(err).Warn("failed to register db pool metrics")
		}
	}

	deps := &runtimeDependencies{
		games:          postgres.NewGameRepository(store),
		timelineRepo:   postgres.NewTimelineRepository(store),
		storageChecker: healthcheck.NewChecker("postgres", store.Ping),
		closeFn: func() error {
			stats := store.Stats()
			logger.WithFields(log.Fields{
				"open_connections": stats.OpenConnections,
				"wait_count":       stats.WaitCount,
			}).Debug("closing postgres pool")
			return store.Close()
		},
	}
	deps.orders = postgres.NewOrderRepository(store,
		postgres.WithStatusPolicy(cfg.StatusPolicy),
		postgres.WithOutboxEvents(cfg.EventsEnabled()),
	)
	if cfg.EventsEnabled() {
		deps.outboxRepo = postgres.NewOutboxRepository(store)
	}

	logger.WithFields(log.Fields{
		"max_open_conns": cfg.PostgresMaxOpenConns,
		"max_idle_conns": cfg.PostgresMaxIdleConns,
	}).Info("postgres storage initialized")
	return deps, nil
}

func (d *runtimeDependencies) close(logger *log.Entry) {
	if d == nil || d.closeFn == nil {
		return
	}
	if err := d.closeFn(); err != nil {
		logger.WithError(err).Warn("failed to close storage")
		return
	}
	logger.Info("storage closed")
}
