package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/product-dashboard/internal/cache"
	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
)

const (
	relatedLimit = 5
	relatedShown = 4
)

// Операции кэша.
const (
	OpGetProducts      = "getProducts"
	OpSearchProducts   = "searchProducts"
	OpGetProductByID   = "getProductById"
	OpGetProductBySlug = "getProductBySlug"
	OpGetCategories    = "getCategories"
)

// ProductUseCase — координаторы запросов: чтения идут через кэш, изменения инвалидируют его теги.
type ProductUseCase struct {
	api     RemoteAPI
	session TokenSource
	cache   *cache.Cache
	images  ImagesInfra
	feed    *NotificationFeed
	logger  logger.Logger
}

func NewProductUC(
	api RemoteAPI,
	session TokenSource,
	entityCache *cache.Cache,
	images ImagesInfra,
	feed *NotificationFeed,
	logger logger.Logger,
) *ProductUseCase {
	entityCache.Uncached(OpSearchProducts)
	entityCache.Provides(OpGetProducts, domain.TagTypeProduct)
	entityCache.Provides(OpSearchProducts)
	entityCache.Provides(OpGetProductByID, domain.TagTypeProduct)
	entityCache.Provides(OpGetProductBySlug, domain.TagTypeProduct)
	entityCache.Provides(OpGetCategories, domain.TagTypeCategory)

	return &ProductUseCase{
		api:     api,
		session: session,
		cache:   entityCache,
		images:  images,
		feed:    feed,
		logger:  logger,
	}
}

// ListProducts возвращает страницу товаров. Теги: Product:<id> каждого товара и Product:LIST.
func (p *ProductUseCase) ListProducts(ctx context.Context, req domain.ListProductsReq) Result[[]domain.Product] {
	const op = "ProductUseCase.ListProducts"

	req = req.WithDefaults()
	if err := domain.Validate(req); err != nil {
		return Fail[[]domain.Product](e.Wrap(op, err))
	}

	products, err := cache.Read(ctx, p.cache, OpGetProducts, req, listTags,
		func(ctx context.Context) ([]domain.Product, error) {
			return p.api.ListProducts(ctx, p.session, req)
		})
	if err != nil {
		return Fail[[]domain.Product](e.Wrap(op, err))
	}
	return Ok(products)
}

// SearchProducts ищет по тексту. Результат без тегов и не попадает в снимок.
func (p *ProductUseCase) SearchProducts(ctx context.Context, req domain.SearchProductsReq) Result[[]domain.Product] {
	const op = "ProductUseCase.SearchProducts"

	products, err := cache.Read(ctx, p.cache, OpSearchProducts, req.Text, nil,
		func(ctx context.Context) ([]domain.Product, error) {
			return p.api.SearchProducts(ctx, p.session, req)
		})
	if err != nil {
		return Fail[[]domain.Product](e.Wrap(op, err))
	}
	return Ok(products)
}

// GetProductByID — тег Product:<id>.
func (p *ProductUseCase) GetProductByID(ctx context.Context, id string) Result[*domain.Product] {
	const op = "ProductUseCase.GetProductByID"

	if strings.TrimSpace(id) == "" {
		return Fail[*domain.Product](e.Wrap(op, e.NewValidationError("id", "is required", e.ErrMissingIdentifier)))
	}

	product, err := cache.Read(ctx, p.cache, OpGetProductByID, id,
		func(*domain.Product) []domain.Tag { return []domain.Tag{domain.ProductTag(id)} },
		func(ctx context.Context) (*domain.Product, error) {
			return p.api.GetProduct(ctx, p.session, id)
		})
	if err != nil {
		return Fail[*domain.Product](e.Wrap(op, err))
	}
	return Ok(product)
}

// GetProductBySlug — тег Product:<id> найденного товара.
func (p *ProductUseCase) GetProductBySlug(ctx context.Context, slug string) Result[*domain.Product] {
	const op = "ProductUseCase.GetProductBySlug"

	if strings.TrimSpace(slug) == "" {
		return Fail[*domain.Product](e.Wrap(op, e.NewValidationError("slug", "is required", e.ErrMissingIdentifier)))
	}

	product, err := cache.Read(ctx, p.cache, OpGetProductBySlug, slug, productTags,
		func(ctx context.Context) (*domain.Product, error) {
			return p.api.GetProduct(ctx, p.session, slug)
		})
	if err != nil {
		return Fail[*domain.Product](e.Wrap(op, err))
	}
	return Ok(product)
}

// GetProduct ищет сначала по slug, затем по id.
// Оба запроса идут на один адрес products/{key}, поэтому при совпадающих ключах повтора нет.
func (p *ProductUseCase) GetProduct(ctx context.Context, req domain.GetProductReq) Result[*domain.Product] {
	switch {
	case req.Slug != "":
		res := p.GetProductBySlug(ctx, req.Slug)
		if res.IsOk() || req.ID == "" || req.ID == req.Slug {
			return res
		}
		return p.GetProductByID(ctx, req.ID)
	default:
		return p.GetProductByID(ctx, req.ID)
	}
}

// WaitProductChange ждёт, пока запись товара по id изменится или устареет, и возвращает актуальное значение.
// Удалённый товар приходит ошибкой ErrNotFound.
func (p *ProductUseCase) WaitProductChange(ctx context.Context, id string) Result[*domain.Product] {
	const op = "ProductUseCase.WaitProductChange"

	if strings.TrimSpace(id) == "" {
		return Fail[*domain.Product](e.Wrap(op, e.NewValidationError("id", "is required", e.ErrMissingIdentifier)))
	}

	changed, unsubscribe := p.cache.Subscribe(OpGetProductByID, id)
	defer unsubscribe()

	select {
	case <-ctx.Done():
		return Fail[*domain.Product](e.Wrap(op, ctx.Err()))
	case <-changed:
	}

	return p.GetProductByID(ctx, id)
}

// RelatedProducts — товары той же категории, без самого товара: не больше четырёх из первых пяти.
// Запрос идёт через ListProducts и делит с ним кэш и теги. Товар без категории даёт пустой список.
func (p *ProductUseCase) RelatedProducts(ctx context.Context, product *domain.Product) Result[[]domain.Product] {
	const op = "ProductUseCase.RelatedProducts"

	if product == nil || product.Category == nil || product.Category.ID == "" {
		return Ok([]domain.Product{})
	}

	res := p.ListProducts(ctx, domain.ListProductsReq{CategoryID: product.Category.ID, Limit: relatedLimit})
	if !res.IsOk() {
		return Fail[[]domain.Product](e.Wrap(op, res.Err))
	}

	related := make([]domain.Product, 0, relatedShown)
	for _, pr := range res.Value {
		if pr.ID == product.ID {
			continue
		}
		related = append(related, pr)
		if len(related) == relatedShown {
			break
		}
	}
	return Ok(related)
}

// ListCategories — тег Category.
func (p *ProductUseCase) ListCategories(ctx context.Context, req domain.ListCategoriesReq) Result[[]domain.Category] {
	const op = "ProductUseCase.ListCategories"

	req = req.WithDefaults()
	if err := domain.Validate(req); err != nil {
		return Fail[[]domain.Category](e.Wrap(op, err))
	}

	categories, err := cache.Read(ctx, p.cache, OpGetCategories, req,
		func([]domain.Category) []domain.Tag { return []domain.Tag{domain.CategoryTag()} },
		func(ctx context.Context) ([]domain.Category, error) {
			return p.api.ListCategories(ctx, p.session, req)
		})
	if err != nil {
		return Fail[[]domain.Category](e.Wrap(op, err))
	}
	return Ok(categories)
}

// CreateProduct создаёт товар и инвалидирует Product:LIST до возврата результата.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req domain.CreateProductReq) Result[*domain.Product] {
	const op = "ProductUseCase.CreateProduct"

	if err := domain.Validate(req); err != nil {
		return Fail[*domain.Product](e.Wrap(op, err))
	}

	product, err := p.api.CreateProduct(ctx, p.session, req)
	if err != nil {
		return Fail[*domain.Product](e.Wrap(op, err))
	}

	p.cache.Invalidate(domain.ProductListTag())
	return Ok(product)
}

// UpdateProduct обновляет товар и инвалидирует Product:<id> и Product:LIST.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, req domain.UpdateProductReq) Result[*domain.Product] {
	const op = "ProductUseCase.UpdateProduct"

	if err := domain.Validate(req); err != nil {
		return Fail[*domain.Product](e.Wrap(op, err))
	}

	product, err := p.api.UpdateProduct(ctx, p.session, req)
	if err != nil {
		return Fail[*domain.Product](e.Wrap(op, err))
	}

	p.cache.Invalidate(domain.ProductTag(req.ID), domain.ProductListTag())
	return Ok(product)
}

// DeleteProduct удаляет товар и инвалидирует Product:<id> и Product:LIST.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, req domain.DeleteProductReq) Result[*domain.DeleteProductRes] {
	const op = "ProductUseCase.DeleteProduct"

	if err := domain.Validate(req); err != nil {
		return Fail[*domain.DeleteProductRes](e.Wrap(op, err))
	}

	res, err := p.api.DeleteProduct(ctx, p.session, req)
	if err != nil {
		return Fail[*domain.DeleteProductRes](e.Wrap(op, err))
	}

	p.cache.Invalidate(domain.ProductTag(req.ID), domain.ProductListTag())
	return Ok(res)
}

// UpdateAndPatch — обновление после подтверждения. UpdateProduct уже инвалидировал Product:<id> и списки,
// после чего записи по id и slug получают ответ сервера и снова отдаются без запроса.
// Идущие чтения товара начаты до правки и их результат отбрасывается.
func (p *ProductUseCase) UpdateAndPatch(ctx context.Context, req domain.UpdateProductReq) Result[*domain.Product] {
	res := p.UpdateProduct(ctx, req)
	if !res.IsOk() {
		return res
	}

	updated := res.Value
	merge := func(cur *domain.Product) (*domain.Product, bool) {
		if cur == nil {
			return nil, false
		}
		next := cur.Clone()
		next.Merge(updated)
		return next, true
	}

	if !cache.Patch(p.cache, OpGetProductByID, req.ID, merge) {
		p.logger.Debugf("no cached product %s to patch", req.ID)
	}
	if updated.Slug != nil && *updated.Slug != "" {
		cache.Patch(p.cache, OpGetProductBySlug, *updated.Slug, merge)
	}
	return res
}

// PrepareSubmission загружает новое изображение и собирает тело формы.
// Ошибка загрузки не прерывает отправку: остаются прежние изображения, ошибка возвращается в UploadErr.
func (p *ProductUseCase) PrepareSubmission(ctx context.Context, form ProductForm) (SubmissionPayload, error) {
	const op = "ProductUseCase.PrepareSubmission"

	payload := SubmissionPayload{
		Name:        strings.TrimSpace(form.Name),
		Description: form.Description,
		Price:       form.Price,
		Images:      append([]string{}, form.Previous...),
		CategoryID:  form.CategoryID,
	}

	if payload.Name == "" {
		return payload, e.Wrap(op, e.NewValidationError("name", "is required", e.ErrProductNameRequired))
	}
	if payload.Price <= 0 {
		return payload, e.Wrap(op, e.NewValidationError("price", "must be greater than 0", e.ErrPriceMustBePositive))
	}

	if form.Image == nil {
		return payload, nil
	}

	urls, err := p.images.UploadImages(ctx, []ProductImage{*form.Image})
	if err != nil {
		p.logger.Warnf("image upload failed, keeping previous images: %v", e.Wrap(op, err))
		p.feed.Error("Upload failed")
		payload.UploadErr = err
		return payload, nil
	}
	if len(urls) > 0 {
		payload.Images = []string{urls[0]}
		payload.Uploaded = urls
	}
	return payload, nil
}

// DiscardUploads удаляет изображения формы, которая так и не была сохранена.
func (p *ProductUseCase) DiscardUploads(urls []string) {
	if len(urls) == 0 {
		return
	}
	p.logger.Infof("discarding %d uploaded images of an unsaved product", len(urls))
	p.images.CleanupImages(urls)
}

func listTags(products []domain.Product) []domain.Tag {
	tags := make([]domain.Tag, 0, len(products)+1)
	for _, pr := range products {
		tags = append(tags, domain.ProductTag(pr.ID))
	}
	return append(tags, domain.ProductListTag())
}

func productTags(product *domain.Product) []domain.Tag {
	if product == nil {
		return nil
	}
	return []domain.Tag{domain.ProductTag(product.ID)}
}
