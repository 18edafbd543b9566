package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

func TestEncodeDecodeGame(t *testing.T) {
	game := domain.Game{
		ID:          12,
		Name:        "Outer Wilds",
		Category:    "Adventure",
		ReleaseDate: time.Date(2019, time.May, 28, 0, 0, 0, 0, time.UTC),
		Price:       decimal.RequireFromString("24.99"),
		CreatedAt:   time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := encodeGame(game)
	require.NoError(t, err)
	require.Contains(t, string(data), `"release_date":"2019-05-28"`)

	decoded, err := decodeGame(data)
	require.NoError(t, err)
	require.Equal(t, game.ID, decoded.ID)
	require.True(t, game.Price.Equal(decoded.Price))
	require.True(t, game.ReleaseDate.Equal(decoded.ReleaseDate))
	require.True(t, game.CreatedAt.Equal(decoded.CreatedAt))

	_, err = decodeGame([]byte(`{"release_date":"yesterday"}`))
	require.Error(t, err)
}

func TestRedisGameCache_UnreachableServerReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := newRedisGameCache(client, 0)
	t.Cleanup(func() { _ = c.Close() })

	require.Equal(t, defaultCacheTTL, c.ttl)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, ok, err := c.Get(ctx, 1)
	require.Error(t, err)
	require.False(t, ok)
	require.Error(t, c.Set(ctx, domain.Game{ID: 1}))
	require.Error(t, c.Invalidate(ctx, 1))
	require.Error(t, c.Ping(ctx))
}

func TestGameKey(t *testing.T) {
	require.Equal(t, "lugx:game:42", gameKey(42))
}
