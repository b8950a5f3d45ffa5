package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// Notifications — лента уведомлений для оболочки.
type Notifications interface {
	Success(message string)
	Error(message string)
	Drain() []domain.Notification
}

// ProductResponse — товар после создания или правки. UploadError заполнен, если новое изображение не загрузилось.
type ProductResponse struct {
	Product     *domain.Product `json:"product"`
	UploadError string          `json:"uploadError,omitempty"`
}

type ProductHandler struct {
	products usecase.ProductUC
	dialogs  usecase.DialogsUC
	notes    Notifications
	logger   logger.Logger
}

func NewProductHandler(products usecase.ProductUC, dialogs usecase.DialogsUC, notes Notifications, logger logger.Logger) *ProductHandler {
	return &ProductHandler{products: products, dialogs: dialogs, notes: notes, logger: logger}
}

// listProducts
//
//	@Summary	Страница товаров
//	@Tags		products
//	@Produce	json
//	@Param		offset		query	int		false	"Смещение"
//	@Param		limit		query	int		false	"Размер страницы"
//	@Param		categoryId	query	string	false	"Категория"
//	@Router		/api/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset")
	if err != nil {
		WriteError(w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		WriteError(w, err)
		return
	}

	req := domain.ListProductsReq{Offset: offset, Limit: limit, CategoryID: r.URL.Query().Get("categoryId")}
	products, err := p.products.ListProducts(r.Context(), req).Unwrap()
	if err != nil {
		p.fail(w, err, "Failed to load products")
		return
	}

	WriteSuccess(w, http.StatusOK, products)
}

func (p *ProductHandler) searchProducts(w http.ResponseWriter, r *http.Request) {
	req := domain.SearchProductsReq{Text: r.URL.Query().Get("searchedText")}

	products, err := p.products.SearchProducts(r.Context(), req).Unwrap()
	if err != nil {
		p.fail(w, err, "Search failed")
		return
	}

	WriteSuccess(w, http.StatusOK, products)
}

// getProduct ищет по slug, затем по id.
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "idOrSlug")

	product, err := p.products.GetProduct(r.Context(), domain.GetProductReq{Slug: key, ID: key}).Unwrap()
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, product)
}

// relatedProducts отдаёт товары той же категории для страницы товара.
func (p *ProductHandler) relatedProducts(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "id")

	product, err := p.products.GetProduct(r.Context(), domain.GetProductReq{Slug: key, ID: key}).Unwrap()
	if err != nil {
		WriteError(w, err)
		return
	}

	related, err := p.products.RelatedProducts(r.Context(), product).Unwrap()
	if err != nil {
		p.fail(w, err, "Failed to load products")
		return
	}

	WriteSuccess(w, http.StatusOK, related)
}

// watchProduct ждёт изменения товара в кэше не дольше wait секунд.
// 204 означает, что за это время ничего не изменилось.
func (p *ProductHandler) watchProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, err := longPollContext(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	defer cancel()

	product, err := p.products.WaitProductChange(ctx, chi.URLParam(r, "id")).Unwrap()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		w.WriteHeader(http.StatusNoContent)
	case err != nil:
		WriteError(w, err)
	default:
		WriteSuccess(w, http.StatusOK, product)
	}
}

func (p *ProductHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset")
	if err != nil {
		WriteError(w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		WriteError(w, err)
		return
	}

	categories, err := p.products.ListCategories(r.Context(), domain.ListCategoriesReq{Offset: offset, Limit: limit}).Unwrap()
	if err != nil {
		p.fail(w, err, "Failed to load categories")
		return
	}

	WriteSuccess(w, http.StatusOK, categories)
}

// createProduct
//
//	@Summary	Создание товара
//	@Tags		products
//	@Accept		json,multipart/form-data
//	@Produce	json
//	@Param		name		formData	string	true	"Название"
//	@Param		price		formData	number	true	"Цена"
//	@Param		image		formData	file	false	"Изображение"
//	@Success	201			{object}	ProductResponse
//	@Failure	400			{object}	ErrorResponse
//	@Router		/api/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var (
		req       domain.CreateProductReq
		uploadErr error
		uploaded  []string
	)

	if isMultipart(r) {
		payload, err := p.submission(r, nil)
		if err != nil {
			p.fail(w, err, "Failed to create product")
			return
		}
		req, uploadErr, uploaded = payload.ToCreate(), payload.UploadErr, payload.Uploaded
	} else if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.products.CreateProduct(r.Context(), req).Unwrap()
	if err != nil {
		if len(uploaded) > 0 {
			p.products.DiscardUploads(uploaded)
		}
		p.fail(w, err, "Failed to create product")
		return
	}

	p.notes.Success("Product created successfully!")
	WriteSuccess(w, http.StatusCreated, newProductResponse(product, uploadErr))
}

// updateProduct отправляет правку в диалог подтверждения и ждёт решения пользователя.
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var (
		req       domain.UpdateProductReq
		uploadErr error
		uploaded  []string
	)

	if isMultipart(r) {
		current, err := p.products.GetProductByID(r.Context(), id).Unwrap()
		if err != nil {
			p.fail(w, err, "Failed to update product")
			return
		}
		payload, err := p.submission(r, current.Images)
		if err != nil {
			p.fail(w, err, "Failed to update product")
			return
		}
		req, uploadErr, uploaded = payload.ToUpdate(id), payload.UploadErr, payload.Uploaded
	} else {
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, err)
			return
		}
		req.ID = id
	}

	// уведомления об исходе публикует диалог
	product, err := p.dialogs.SubmitEdit(r.Context(), req)
	if err != nil {
		p.logger.Debugf("edit of %s not applied: %v", id, err)
		// правка отменена или не сохранилась: новое изображение никому не нужно
		if len(uploaded) > 0 && !errors.Is(err, e.ErrFlowBusy) {
			p.products.DiscardUploads(uploaded)
		}
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductResponse(product, uploadErr))
}

func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := p.dialogs.SubmitDelete(r.Context(), domain.DeleteProductReq{ID: id})
	if err != nil {
		p.logger.Debugf("delete of %s not applied: %v", id, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res)
}

// submission разбирает multipart-форму и загружает изображение.
// Если в форме нет поля images, используются previous.
func (p *ProductHandler) submission(r *http.Request, previous []string) (usecase.SubmissionPayload, error) {
	form, err := parseProductForm(r)
	if err != nil {
		return usecase.SubmissionPayload{}, err
	}
	if form.Previous == nil {
		form.Previous = previous
	}

	return p.products.PrepareSubmission(r.Context(), form)
}

// fail пишет ошибку и публикует уведомление.
func (p *ProductHandler) fail(w http.ResponseWriter, err error, message string) {
	if e.IsCancellation(err) {
		WriteError(w, err)
		return
	}

	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		p.logger.Errorf(err, "%s", message)
	} else {
		p.logger.Warnf("%s: %v", message, err)
	}
	if e.IsNetwork(err) {
		p.notes.Error("Network error")
	} else {
		p.notes.Error(message)
	}
	WriteError(w, err)
}

func newProductResponse(product *domain.Product, uploadErr error) ProductResponse {
	res := ProductResponse{Product: product}
	if uploadErr != nil {
		res.UploadError = uploadErr.Error()
	}
	return res
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, e.NewValidationError(name, "must be a non-negative integer", e.ErrStatusBadRequest)
	}
	return v, nil
}

const (
	defaultLongPollWait = 25 * time.Second
	maxLongPollWait     = 60 * time.Second
)

// longPollContext ограничивает ожидание параметром wait (секунды).
func longPollContext(r *http.Request) (context.Context, context.CancelFunc, error) {
	wait := defaultLongPollWait
	if raw := r.URL.Query().Get("wait"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, nil, e.NewValidationError("wait", "must be a positive number of seconds", e.ErrStatusBadRequest)
		}
		wait = min(time.Duration(secs)*time.Second, maxLongPollWait)
	}

	ctx, cancel := context.WithTimeout(r.Context(), wait)
	return ctx, cancel, nil
}
