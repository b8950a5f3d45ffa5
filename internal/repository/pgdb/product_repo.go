package pgdb

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Категория присоединяется левым JOIN, цена читается как float8.
const productSelect = `
	SELECT
		p.id, p.name, p.description, p.images, p.price::float8, p.slug, p.category_id,
		p.created_at, p.updated_at,
		c.id, c.name, c.image, c.description, c.created_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
`

func (p *ProductRepo) List(ctx context.Context, offset, limit int, categoryID *int64) ([]domain.Product, error) {
	query := productSelect + `
		WHERE ($3::bigint IS NULL OR p.category_id = $3)
		ORDER BY p.id
		OFFSET $1 LIMIT $2
	`

	return p.queryMany(ctx, query, offset, limit, categoryID)
}

// Search ищет подстроку в названии и описании без учёта регистра.
func (p *ProductRepo) Search(ctx context.Context, text string, limit int) ([]domain.Product, error) {
	query := productSelect + `
		WHERE p.name ILIKE $1 OR p.description ILIKE $1
		ORDER BY p.id
		LIMIT $2
	`

	return p.queryMany(ctx, query, likePattern(text), limit)
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return p.queryOne(ctx, productSelect+` WHERE p.id = $1`, id)
}

func (p *ProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return p.queryOne(ctx, productSelect+` WHERE p.slug = $1`, slug)
}

// Create вставляет товар в рамках транзакции из контекста.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product, categoryID *int64) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	images := product.Images
	if images == nil {
		images = []string{}
	}

	query := `
		INSERT INTO products (name, description, images, price, slug, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	if err := tx.QueryRow(ctx, query,
		product.Name,
		product.Description,
		images,
		product.Price,
		product.Slug,
		categoryID,
	).Scan(&id); err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.NewValidationError("slug", "already exists", e.ErrStatusBadRequest))
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.GetByID(ctx, id)
}

// Update меняет только переданные поля.
func (p *ProductRepo) Update(ctx context.Context, id int64, patch usecase.ProductPatch) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var images any
	if patch.Images != nil {
		images = *patch.Images
	}

	query := `
		UPDATE products SET
			name = COALESCE($2::text, name),
			description = COALESCE($3::text, description),
			price = COALESCE($4::numeric, price),
			images = COALESCE($5::text[], images),
			category_id = COALESCE($6::bigint, category_id),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, patch.Name, patch.Description, patch.Price, images, patch.CategoryID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	return p.GetByID(ctx, id)
}

func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	return nil
}

func (p *ProductRepo) queryOne(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	model, err := scanProduct(conn(ctx, p.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

func (p *ProductRepo) queryMany(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := conn(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]*converter.ProductModel, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var (
		model      converter.ProductModel
		catID      *int64
		catName    *string
		catImage   *string
		catDesc    *string
		catCreated *time.Time
	)

	err := row.Scan(
		&model.ID, &model.Name, &model.Description, &model.Images, &model.Price, &model.Slug, &model.CategoryID,
		&model.CreatedAt, &model.UpdatedAt,
		&catID, &catName, &catImage, &catDesc, &catCreated,
	)
	if err != nil {
		return nil, err
	}

	if catID != nil {
		category := &converter.CategoryModel{ID: *catID, Image: catImage, Description: catDesc}
		if catName != nil {
			category.Name = *catName
		}
		if catCreated != nil {
			category.CreatedAt = *catCreated
		}
		model.Category = category
	}

	return &model, nil
}
