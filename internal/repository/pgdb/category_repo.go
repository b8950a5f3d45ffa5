package pgdb

import (
	"context"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

func (c *CategoryRepo) List(ctx context.Context, offset, limit int) ([]domain.Category, error) {
	query := `
		SELECT id, name, image, description, created_at
		FROM categories
		ORDER BY id
		OFFSET $1 LIMIT $2
	`

	rows, err := conn(ctx, c.pool).Query(ctx, query, offset, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[converter.CategoryModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToArrEntity(models), nil
}

func (c *CategoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := conn(ctx, c.pool).
		QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).
		Scan(&exists)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}
	return exists, nil
}
