package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

// gameRepositoryInMemory хранит каталог игр в памяти.
type gameRepositoryInMemory struct {
	mu     sync.RWMutex
	nextID int64
	games  map[int64]domain.Game
}

// NewGameRepository возвращает in-memory каталог для локальной разработки и тестов.
func NewGameRepository() domain.GameRepository {
	return &gameRepositoryInMemory{games: make(map[int64]domain.Game)}
}

func (r *gameRepositoryInMemory) Create(_ context.Context, in domain.GameInput) (domain.Game, error) {
	if err := in.Validate(); err != nil {
		return domain.Game{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	game := domain.Game{ID: r.nextID, CreatedAt: time.Now().UTC()}.Apply(in)
	r.games[game.ID] = game
	return game, nil
}

func (r *gameRepositoryInMemory) List(_ context.Context) ([]domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Game, 0, len(r.games))
	for _, game := range r.games {
		result = append(result, game)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *gameRepositoryInMemory) Get(_ context.Context, id int64) (domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	game, ok := r.games[id]
	if !ok {
		return domain.Game{}, domain.ErrGameNotFound
	}
	return game, nil
}

func (r *gameRepositoryInMemory) Update(_ context.Context, id int64, in domain.GameInput) (domain.Game, error) {
	if err := in.Validate(); err != nil {
		return domain.Game{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	game, ok := r.games[id]
	if !ok {
		return domain.Game{}, domain.ErrGameNotFound
	}
	game = game.Apply(in)
	r.games[id] = game
	return game, nil
}

func (r *gameRepositoryInMemory) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[id]; !ok {
		return domain.ErrGameNotFound
	}
	delete(r.games, id)
	return nil
}

var _ domain.GameRepository = (*gameRepositoryInMemory)(nil)
