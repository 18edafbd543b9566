package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

const gameColumns = `id, name, category, release_date, price, created_at`

type gameRepository struct {
	db *sql.DB
}

// NewGameRepository создаёт PostgreSQL-реализацию GameRepository.
func NewGameRepository(store *Store) domain.GameRepository {
	return &gameRepository{db: store.DB()}
}

func (r *gameRepository) Create(ctx context.Context, in domain.GameInput) (domain.Game, error) {
	if err := in.Validate(); err != nil {
		return domain.Game{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	game, err := scanGame(r.db.QueryRowContext(ctx, `
		INSERT INTO games (name, category, release_date, price)
		VALUES ($1,$2,$3,$4)
		RETURNING `+gameColumns,
		in.Name, in.Category, in.ReleaseDate, in.Price,
	))
	if err != nil {
		return domain.Game{}, storeError("insert game", err)
	}
	return game, nil
}

func (r *gameRepository) List(ctx context.Context) ([]domain.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, storeError("list games", err)
	}
	defer rows.Close()

	games := make([]domain.Game, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, storeError("scan game row", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate game rows", err)
	}
	return games, nil
}

func (r *gameRepository) Get(ctx context.Context, id int64) (domain.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	game, err := scanGame(r.db.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Game{}, domain.ErrGameNotFound
		}
		return domain.Game{}, storeError("select game", err)
	}
	return game, nil
}

func (r *gameRepository) Update(ctx context.Context, id int64, in domain.GameInput) (domain.Game, error) {
	if err := in.Validate(); err != nil {
		return domain.Game{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	game, err := scanGame(r.db.QueryRowContext(ctx, `
		UPDATE games
		SET name = $2,
		    category = $3,
		    release_date = $4,
		    price = $5
		WHERE id = $1
		RETURNING `+gameColumns,
		id, in.Name, in.Category, in.ReleaseDate, in.Price,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Game{}, domain.ErrGameNotFound
		}
		return domain.Game{}, storeError("update game", err)
	}
	return game, nil
}

func (r *gameRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return storeError("delete game", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeError("rows affected for delete game", err)
	}
	if affected == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

// rowScanner покрывает *sql.Row и *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (domain.Game, error) {
	var game domain.Game
	err := row.Scan(&game.ID, &game.Name, &game.Category, &game.ReleaseDate, &game.Price, &game.CreatedAt)
	return game, err
}

var _ domain.GameRepository = (*gameRepository)(nil)
