package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/DRSN-tech/product-dashboard/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const searchLimit = 50

// CatalogUseCase реализует API товаров для mock-бэкенда: PostgreSQL и outbox-события.
type CatalogUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxEventRepository
	dbPool       transaction.Transactional
	tokens       TokenIssuer
	logger       logger.Logger
}

func NewCatalogUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxEventRepository,
	dbPool transaction.Transactional,
	tokens TokenIssuer,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		dbPool:       dbPool,
		tokens:       tokens,
		logger:       logger,
	}
}

// Login выдаёт токен на любой корректный email.
func (c *CatalogUseCase) Login(_ context.Context, email string) (string, error) {
	const op = "CatalogUseCase.Login"

	if err := domain.Validate(domain.LoginReq{Email: email}); err != nil {
		return "", e.Wrap(op, err)
	}

	token, err := c.tokens.Issue(email)
	if err != nil {
		return "", e.Wrap(op, err)
	}
	return token, nil
}

func (c *CatalogUseCase) ListProducts(ctx context.Context, req domain.ListProductsReq) ([]domain.Product, error) {
	const op = "CatalogUseCase.ListProducts"

	req = req.WithDefaults()
	if err := domain.Validate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	var categoryID *int64
	if req.CategoryID != "" {
		id, err := parseID("categoryId", req.CategoryID)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		categoryID = &id
	}

	products, err := c.productRepo.List(ctx, req.Offset, req.Limit, categoryID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return products, nil
}

func (c *CatalogUseCase) SearchProducts(ctx context.Context, text string) ([]domain.Product, error) {
	const op = "CatalogUseCase.SearchProducts"

	text = strings.TrimSpace(text)
	if text == "" {
		return []domain.Product{}, nil
	}

	products, err := c.productRepo.Search(ctx, text, searchLimit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return products, nil
}

// GetProduct ищет сначала по slug, затем по числовому id.
func (c *CatalogUseCase) GetProduct(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	const op = "CatalogUseCase.GetProduct"

	if idOrSlug == "" {
		return nil, e.Wrap(op, e.NewValidationError("id", "is required", e.ErrMissingIdentifier))
	}

	product, err := c.productRepo.GetBySlug(ctx, idOrSlug)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, e.Wrap(op, err)
	}

	id, convErr := strconv.ParseInt(idOrSlug, 10, 64)
	if convErr != nil {
		return nil, e.Wrap(op, e.ErrNotFound)
	}

	product, err = c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return product, nil
}

func (c *CatalogUseCase) ListCategories(ctx context.Context, req domain.ListCategoriesReq) ([]domain.Category, error) {
	const op = "CatalogUseCase.ListCategories"

	req = req.WithDefaults()
	if err := domain.Validate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	categories, err := c.categoryRepo.List(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	return categories, nil
}

// CreateProduct создаёт товар и outbox-событие в одной транзакции.
func (c *CatalogUseCase) CreateProduct(ctx context.Context, req domain.CreateProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.CreateProduct"

	var err error
	if err = domain.Validate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	price, err := normalizePrice(req.Price)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var categoryID *int64
	if req.CategoryID != "" {
		id, err := c.ensureCategory(ctx, req.CategoryID)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		categoryID = &id
	}

	name := strings.TrimSpace(req.Name)
	slug := Slugify(name) + "-" + uuid.NewString()[:8]
	product := &domain.Product{
		Name:   name,
		Price:  price,
		Slug:   &slug,
		Images: req.Images,
	}
	if req.Description != "" {
		product.Description = &req.Description
	}

	var created *domain.Product
	err = c.inTx(ctx, func(ctx context.Context) error {
		var err error
		if created, err = c.productRepo.Create(ctx, product, categoryID); err != nil {
			return err
		}
		return c.writeEvent(ctx, ProductCreated, created)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return created, nil
}

// UpdateProduct применяет частичное обновление и пишет outbox-событие.
func (c *CatalogUseCase) UpdateProduct(ctx context.Context, req domain.UpdateProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.UpdateProduct"

	var err error
	if err = domain.Validate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	id, err := parseID("id", req.ID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	patch := ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Images:      req.Images,
	}
	if req.Price != nil {
		price, err := normalizePrice(*req.Price)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		patch.Price = &price
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, err := c.ensureCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		patch.CategoryID = &categoryID
	}

	var updated *domain.Product
	err = c.inTx(ctx, func(ctx context.Context) error {
		var err error
		if updated, err = c.productRepo.Update(ctx, id, patch); err != nil {
			return err
		}
		return c.writeEvent(ctx, ProductUpdated, updated)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

// DeleteProduct удаляет товар и пишет outbox-событие.
func (c *CatalogUseCase) DeleteProduct(ctx context.Context, rawID string) (*domain.DeleteProductRes, error) {
	const op = "CatalogUseCase.DeleteProduct"

	id, err := parseID("id", rawID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	err = c.inTx(ctx, func(ctx context.Context) error {
		if err := c.productRepo.Delete(ctx, id); err != nil {
			return err
		}
		return c.writeEvent(ctx, ProductDeleted, &domain.Product{ID: strconv.FormatInt(id, 10)})
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &domain.DeleteProductRes{ID: strconv.FormatInt(id, 10)}, nil
}

// inTx выполняет fn в транзакции; транзакция доступна репозиториям через контекст.
// Любая ошибка fn откатывает транзакцию.
func (c *CatalogUseCase) inTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil && tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				c.logger.Warnf("rollback failed: %v", rbErr)
			}
		}
	}()

	if err = fn(tr.WithTx(ctx, tx.Transaction())); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// writeEvent пишет событие в outbox внутри текущей транзакции.
func (c *CatalogUseCase) writeEvent(ctx context.Context, eventType OutboxEventType, product *domain.Product) error {
	productID, err := strconv.ParseInt(product.ID, 10, 64)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(product)
	if err != nil {
		return err
	}

	_, err = c.outboxRepo.Create(ctx, NewOutboxEvent(uuid.NewString(), eventType, productID, payload))
	return err
}

func (c *CatalogUseCase) ensureCategory(ctx context.Context, raw string) (int64, error) {
	id, err := parseID("categoryId", raw)
	if err != nil {
		return 0, err
	}

	ok, err := c.categoryRepo.Exists(ctx, id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, e.NewValidationError("categoryId", "unknown category", e.ErrStatusBadRequest)
	}
	return id, nil
}

// normalizePrice проверяет цену и округляет её до копеек.
func normalizePrice(price float64) (float64, error) {
	d := decimal.NewFromFloat(price)
	if !d.IsPositive() {
		return 0, e.NewValidationError("price", "must be greater than 0", e.ErrPriceMustBePositive)
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, e.NewValidationError("price", "at most 2 decimal places", e.ErrPricePrecision)
	}
	f, _ := d.Round(2).Float64()
	return f, nil
}

func parseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.NewValidationError(field, "must be a positive integer", e.ErrStatusBadRequest)
	}
	return id, nil
}

// Slugify приводит название к виду для URL: строчные буквы и цифры через дефис.
func Slugify(name string) string {
	var (
		b        strings.Builder
		pendDash bool
	)
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendDash = false
			b.WriteRune(r)
			continue
		}
		pendDash = true
	}
	if b.Len() == 0 {
		return "product"
	}
	return b.String()
}
