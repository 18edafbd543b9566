package app

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/lugx/internal/health"
	"github.com/vladislavdragonenkov/lugx/internal/metrics"
	"github.com/vladislavdragonenkov/lugx/internal/storage/cache"
)

const redisPingTimeout = 2 * time.Second

// gameCacheDeps — кэш каталога; пустая структура, если REDIS_ADDR не задан.
type gameCacheDeps struct {
	games   domain.GameRepository
	checker healthcheck.Checker
	closeFn func() error
}

// initGameCache оборачивает репозиторий игр read-through кэшем в Redis.
// Недоступный при старте Redis не мешает запуску: ошибки кэша только логируются.
func initGameCache(ctx context.Context, cfg Config, games domain.GameRepository, infra *metrics.InfraMetrics, logger *log.Entry) gameCacheDeps {
	if cfg.RedisAddr == "" {
		return gameCacheDeps{games: games}
	}

	redisCache := cache.NewRedisGameCache(cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})

	entry := logger.WithFields(log.Fields{"component": "game-cache", "addr": cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		entry.WithError(err).Warn("redis is unreachable, reads fall through to storage")
	} else {
		entry.WithField("ttl", cfg.CacheTTL).Info("game cache enabled")
	}

	return gameCacheDeps{
		games:   cache.NewGameRepository(games, redisCache, entry, infra.CacheLookups()),
		checker: healthcheck.NewOptionalChecker("redis", redisCache.Ping),
		closeFn: redisCache.Close,
	}
}
