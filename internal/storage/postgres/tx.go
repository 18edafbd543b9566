package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/lugx/internal/domain"
)

const (
	pgUniqueViolation   = "23505"
	pgStringTooLong     = "22001"
	pgNumericOutOfRange = "22003"
	pgCheckViolation    = "23514"
)

// execer — общий интерфейс *sql.DB и *sql.Tx для вставок, которые
// выполняются как внутри транзакции заказа, так и отдельно.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// withTx выполняет fn в транзакции на одном соединении из пула.
// Commit выполняется только при nil от fn, во всех остальных случаях, включая panic,
// транзакция откатывается и соединение возвращается в пул.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return domain.PersistenceError("begin tx", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return domain.PersistenceError("commit tx", err)
	}
	return nil
}

// storeError оборачивает ошибку драйвера в ErrPersistence и дописывает SQLSTATE, если он есть.
func storeError(op string, err error) error {
	if code := pgErrorCode(err); code != "" {
		op = fmt.Sprintf("%s (sqlstate %s)", op, code)
	}
	return domain.PersistenceError(op, err)
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isDataError сообщает, что база отвергла значение: слишком длинная строка,
// переполнение числа или нарушение CHECK.
func isDataError(err error) bool {
	switch pgErrorCode(err) {
	case pgStringTooLong, pgNumericOutOfRange, pgCheckViolation:
		return true
	default:
		return false
	}
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}
