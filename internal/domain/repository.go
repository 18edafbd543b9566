package domain

import "context"

// GameRepository описывает CRUD над каталогом игр.
type GameRepository interface {
	// Create сохраняет игру и возвращает строку с присвоенными id и created_at.
	Create(ctx context.Context, in GameInput) (Game, error)
	// List возвращает все игры, новые первыми.
	List(ctx context.Context) ([]Game, error)
	// Get возвращает игру или ErrGameNotFound.
	Get(ctx context.Context, id int64) (Game, error)
	// Update полностью перезаписывает изменяемые поля игры.
	Update(ctx context.Context, id int64, in GameInput) (Game, error)
	// Delete удаляет игру или возвращает ErrGameNotFound.
	Delete(ctx context.Context, id int64) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create атомарно сохраняет заказ вместе с позициями.
	// Либо сохраняется всё, либо ничего.
	Create(ctx context.Context, req NewOrder) (Order, error)
	// Get возвращает заказ с позициями или ErrOrderNotFound.
	Get(ctx context.Context, id int64) (Order, error)
	// List возвращает все заказы с позициями, новые первыми.
	List(ctx context.Context) ([]Order, error)
	// UpdateStatus меняет только статус и возвращает строку заказа без позиций.
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) (Order, error)
}
