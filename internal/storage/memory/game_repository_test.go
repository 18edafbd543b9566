package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
	"github.com/vladislavdragonenkov/lugx/internal/storage/memory"
)

func gameInput(name string) domain.GameInput {
	return domain.GameInput{
		Name:        name,
		Category:    "Roguelike",
		ReleaseDate: time.Date(2020, time.September, 17, 0, 0, 0, 0, time.UTC),
		Price:       decimal.RequireFromString("24.99"),
	}
}

func TestGameRepository_CRUD(t *testing.T) {
	repo := memory.NewGameRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, gameInput("Hades"))
	require.NoError(t, err)
	second, err := repo.Create(ctx, gameInput("Dead Cells"))
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	games, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, games, 2)
	require.Equal(t, second.ID, games[0].ID)

	in := gameInput("Hades II")
	in.Price = decimal.RequireFromString("29.99")
	updated, err := repo.Update(ctx, first.ID, in)
	require.NoError(t, err)
	require.Equal(t, "Hades II", updated.Name)
	require.Equal(t, first.CreatedAt, updated.CreatedAt)

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, updated, got)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.Get(ctx, first.ID)
	require.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestGameRepository_Errors(t *testing.T) {
	repo := memory.NewGameRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, gameInput(""))
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = repo.Update(ctx, 42, gameInput("Ghost"))
	require.ErrorIs(t, err, domain.ErrGameNotFound)

	require.ErrorIs(t, repo.Delete(ctx, 42), domain.ErrGameNotFound)

	games, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, games)
}
