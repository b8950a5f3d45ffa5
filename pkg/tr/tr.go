// Package tr передаёт открытую транзакцию через context.
package tr

import (
	"context"

	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/jackc/pgx/v5"
)

type txKey struct{}

// WithTx кладёт транзакцию в контекст. tx: результат Transaction() менеджера транзакций.
func WithTx(ctx context.Context, tx any) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromCtx извлекает pgx.Tx из контекста.
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}
