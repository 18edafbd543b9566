package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

const (
	gameKeyPrefix   = "lugx:game:"
	defaultCacheTTL = 5 * time.Minute
)

// RedisConfig описывает подключение к Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisGameCache реализует domain.GameCache поверх Redis.
type RedisGameCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisGameCache создаёт кэш и клиент Redis. Клиент закрывается через Close.
func NewRedisGameCache(cfg RedisConfig) *RedisGameCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return newRedisGameCache(client, cfg.TTL)
}

func newRedisGameCache(client redis.Cmdable, ttl time.Duration) *RedisGameCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisGameCache{client: client, ttl: ttl}
}

// cachedGame — представление игры в Redis.
type cachedGame struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	ReleaseDate string          `json:"release_date"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}

func encodeGame(game domain.Game) ([]byte, error) {
	return json.Marshal(cachedGame{
		ID:          game.ID,
		Name:        game.Name,
		Category:    game.Category,
		ReleaseDate: game.ReleaseDate.Format(domain.ReleaseDateLayout),
		Price:       game.Price,
		CreatedAt:   game.CreatedAt,
	})
}

func decodeGame(data []byte) (domain.Game, error) {
	var cached cachedGame
	if err := json.Unmarshal(data, &cached); err != nil {
		return domain.Game{}, fmt.Errorf("decode cached game: %w", err)
	}
	releaseDate, err := time.Parse(domain.ReleaseDateLayout, cached.ReleaseDate)
	if err != nil {
		return domain.Game{}, fmt.Errorf("decode cached release date: %w", err)
	}
	return domain.Game{
		ID:          cached.ID,
		Name:        cached.Name,
		Category:    cached.Category,
		ReleaseDate: releaseDate,
		Price:       cached.Price,
		CreatedAt:   cached.CreatedAt,
	}, nil
}

func gameKey(id int64) string {
	return gameKeyPrefix + strconv.FormatInt(id, 10)
}

// Get возвращает игру из кэша; промах — это (Game{}, false, nil).
func (c *RedisGameCache) Get(ctx context.Context, id int64) (domain.Game, bool, error) {
	data, err := c.client.Get(ctx, gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Game{}, false, nil
	}
	if err != nil {
		return domain.Game{}, false, fmt.Errorf("redis get game %d: %w", id, err)
	}

	game, err := decodeGame(data)
	if err != nil {
		return domain.Game{}, false, err
	}
	return game, true, nil
}

// Set кладёт игру в кэш на ttl.
func (c *RedisGameCache) Set(ctx context.Context, game domain.Game) error {
	data, err := encodeGame(game)
	if err != nil {
		return fmt.Errorf("encode game %d: %w", game.ID, err)
	}
	if err := c.client.Set(ctx, gameKey(game.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set game %d: %w", game.ID, err)
	}
	return nil
}

// Invalidate удаляет игру из кэша.
func (c *RedisGameCache) Invalidate(ctx context.Context, id int64) error {
	if err := c.client.Del(ctx, gameKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del game %d: %w", id, err)
	}
	return nil
}

// Ping проверяет доступность Redis для readiness.
func (c *RedisGameCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close закрывает клиент, если он принадлежит кэшу.
func (c *RedisGameCache) Close() error {
	if closer, ok := c.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

var _ domain.GameCache = (*RedisGameCache)(nil)
