package pgdb

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/product-dashboard/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// querier — общее подмножество pgx.Tx и *pgxpool.Pool.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// conn возвращает транзакцию из контекста, если она есть, иначе пул.
func conn(ctx context.Context, pool *pgxpool.Pool) querier {
	if tx, err := tr.TxFromCtx(ctx); err == nil {
		return tx
	}
	return pool
}

func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// likePattern экранирует спецсимволы LIKE.
func likePattern(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(text) + "%"
}
