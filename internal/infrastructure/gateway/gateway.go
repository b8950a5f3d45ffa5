// Package gateway — HTTP-клиент удалённого API товаров.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/jitter"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
)

const maxRetryDelay = 2 * time.Second

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

// Gateway выполняет запросы к удалённому API: JSON, Bearer-токен, повтор GET при сетевых ошибках.
type Gateway struct {
	baseURL    string
	client     *http.Client
	maxRetries int
	retryBase  time.Duration
	logger     logger.Logger
}

func NewGateway(opts Options, log logger.Logger) *Gateway {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = 200 * time.Millisecond
	}

	return &Gateway{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		client:     &http.Client{Timeout: opts.Timeout},
		maxRetries: opts.MaxRetries,
		retryBase:  opts.RetryBase,
		logger:     log,
	}
}

// ListProducts — GET products?offset&limit[&categoryId].
func (g *Gateway) ListProducts(ctx context.Context, sess usecase.TokenSource, req domain.ListProductsReq) ([]domain.Product, error) {
	req = req.WithDefaults()
	query := gout.H{
		"offset": strconv.Itoa(req.Offset),
		"limit":  strconv.Itoa(req.Limit),
	}
	if req.CategoryID != "" {
		query["categoryId"] = req.CategoryID
	}

	var products []domain.Product
	if err := g.do(ctx, sess, http.MethodGet, "products", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SearchProducts — GET products/search?searchedText=.
func (g *Gateway) SearchProducts(ctx context.Context, sess usecase.TokenSource, req domain.SearchProductsReq) ([]domain.Product, error) {
	var products []domain.Product
	err := g.do(ctx, sess, http.MethodGet, "products/search", gout.H{"searchedText": req.Text}, nil, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct — GET products/{id или slug}. Удалённый API разрешает оба ключа по одному пути.
func (g *Gateway) GetProduct(ctx context.Context, sess usecase.TokenSource, idOrSlug string) (*domain.Product, error) {
	if idOrSlug == "" {
		return nil, e.NewValidationError("id", "is required", e.ErrMissingIdentifier)
	}

	var product domain.Product
	if err := g.do(ctx, sess, http.MethodGet, productPath(idOrSlug), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListCategories — GET categories?offset&limit.
func (g *Gateway) ListCategories(ctx context.Context, sess usecase.TokenSource, req domain.ListCategoriesReq) ([]domain.Category, error) {
	req = req.WithDefaults()
	query := gout.H{
		"offset": strconv.Itoa(req.Offset),
		"limit":  strconv.Itoa(req.Limit),
	}

	var categories []domain.Category
	if err := g.do(ctx, sess, http.MethodGet, "categories", query, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (g *Gateway) CreateProduct(ctx context.Context, sess usecase.TokenSource, req domain.CreateProductReq) (*domain.Product, error) {
	var product domain.Product
	if err := g.do(ctx, sess, http.MethodPost, "products", nil, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct — PUT products/{id} с частичным телом.
func (g *Gateway) UpdateProduct(ctx context.Context, sess usecase.TokenSource, req domain.UpdateProductReq) (*domain.Product, error) {
	var product domain.Product
	if err := g.do(ctx, sess, http.MethodPut, productPath(req.ID), nil, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (g *Gateway) DeleteProduct(ctx context.Context, sess usecase.TokenSource, req domain.DeleteProductReq) (*domain.DeleteProductRes, error) {
	var res domain.DeleteProductRes
	if err := g.do(ctx, sess, http.MethodDelete, productPath(req.ID), nil, nil, &res); err != nil {
		return nil, err
	}
	if res.ID == "" {
		res.ID = req.ID
	}
	return &res, nil
}

// Login — POST auth {email}. Токен не обязателен в ответе: его отсутствие проверяет вызывающий.
func (g *Gateway) Login(ctx context.Context, req domain.LoginReq) (*domain.LoginRes, error) {
	var res domain.LoginRes
	if err := g.do(ctx, nil, http.MethodPost, "auth", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// productPath экранирует ключ товара: "/" и "?" в нём не меняют адрес запроса.
func productPath(key string) string {
	return "products/" + url.PathEscape(key)
}

// do выполняет запрос; GET повторяется только при сетевой ошибке.
func (g *Gateway) do(ctx context.Context, sess usecase.TokenSource, method, path string, query gout.H, body, out any) error {
	op := method + " " + path

	attempts := 1
	if method == http.MethodGet {
		attempts += g.maxRetries
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			g.logger.Debugf("retrying %s, attempt %d: %v", op, attempt, err)
			if !jitter.Sleep(ctx.Done(), g.retryBase, maxRetryDelay, attempt-1) {
				return e.NewNetworkError(op, ctx.Err())
			}
		}

		err = g.once(ctx, sess, method, op, path, query, body, out)
		if err == nil || !e.IsNetwork(err) {
			return err
		}
	}
	return err
}

func (g *Gateway) once(ctx context.Context, sess usecase.TokenSource, method, op, path string, query gout.H, body, out any) error {
	target := g.baseURL + "/" + path

	headers := gout.H{"Content-Type": "application/json"}
	if sess != nil {
		if token, ok := sess.CurrentToken(); ok {
			headers["Authorization"] = "Bearer " + token
		}
	}

	var (
		code     int
		respBody []byte
	)

	flow := newFlow(g.client, method, target).
		WithContext(ctx).
		SetHeader(headers).
		Code(&code).
		BindBody(&respBody)
	if query != nil {
		flow = flow.SetQuery(query)
	}
	if body != nil {
		flow = flow.SetJSON(body)
	}

	if err := flow.Do(); err != nil {
		return e.NewNetworkError(op, err)
	}

	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		return e.NewHTTPError(op, code, truncate(string(respBody), 256))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return e.Wrap(op, errors.Join(e.ErrInternalServerError, err))
	}
	return nil
}

func newFlow(client *http.Client, method, target string) *dataflow.DataFlow {
	g := gout.New(client)
	switch method {
	case http.MethodPost:
		return g.POST(target)
	case http.MethodPut:
		return g.PUT(target)
	case http.MethodDelete:
		return g.DELETE(target)
	default:
		return g.GET(target)
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
