package cache

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

// GameRepository — read-through декоратор каталога. Ошибки кэша только логируются,
// источником истины остаётся вложенный репозиторий.
type GameRepository struct {
	next    domain.GameRepository
	cache   domain.GameCache
	logger  *log.Entry
	lookups *prometheus.CounterVec
}

// NewGameRepository оборачивает repo кэшем. Метрика lookups может быть nil.
func NewGameRepository(repo domain.GameRepository, cache domain.GameCache, logger *log.Entry, lookups *prometheus.CounterVec) *GameRepository {
	if logger == nil {
		logger = log.WithField("component", "game-cache")
	}
	return &GameRepository{next: repo, cache: cache, logger: logger, lookups: lookups}
}

func (r *GameRepository) Create(ctx context.Context, in domain.GameInput) (domain.Game, error) {
	game, err := r.next.Create(ctx, in)
	if err != nil {
		return domain.Game{}, err
	}
	r.store(ctx, game)
	return game, nil
}

// List всегда идёт в хранилище: список не кэшируется.
func (r *GameRepository) List(ctx context.Context) ([]domain.Game, error) {
	return r.next.List(ctx)
}

func (r *GameRepository) Get(ctx context.Context, id int64) (domain.Game, error) {
	game, ok, err := r.cache.Get(ctx, id)
	switch {
	case err != nil:
		r.observe("error")
		r.logger.WithError(err).WithField("game_id", id).Warn("game cache read failed")
	case ok:
		r.observe("hit")
		return game, nil
	default:
		r.observe("miss")
	}

	game, err = r.next.Get(ctx, id)
	if err != nil {
		return domain.Game{}, err
	}
	r.store(ctx, game)
	return game, nil
}

func (r *GameRepository) Update(ctx context.Context, id int64, in domain.GameInput) (domain.Game, error) {
	game, err := r.next.Update(ctx, id, in)
	if err != nil {
		if domain.IsNotFound(err) {
			r.invalidate(ctx, id)
		}
		return domain.Game{}, err
	}
	if !r.store(ctx, game) {
		// Прежняя версия не должна пережить неудачную запись.
		r.invalidate(ctx, id)
	}
	return game, nil
}

func (r *GameRepository) Delete(ctx context.Context, id int64) error {
	err := r.next.Delete(ctx, id)
	if err == nil || domain.IsNotFound(err) {
		r.invalidate(ctx, id)
	}
	return err
}

// store кладёт игру в кэш и сообщает, удалось ли это.
func (r *GameRepository) store(ctx context.Context, game domain.Game) bool {
	if err := r.cache.Set(ctx, game); err != nil {
		r.logger.WithError(err).WithField("game_id", game.ID).Warn("game cache write failed")
		return false
	}
	return true
}

func (r *GameRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.Invalidate(ctx, id); err != nil {
		r.logger.WithError(err).WithField("game_id", id).Warn("game cache invalidation failed")
	}
}

func (r *GameRepository) observe(result string) {
	if r.lookups != nil {
		r.lookups.WithLabelValues(result).Inc()
	}
}

var _ domain.GameRepository = (*GameRepository)(nil)
