package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) CurrentToken() (string, bool) { return string(s), s != "" }

func newTestGateway(url string) *Gateway {
	return NewGateway(Options{BaseURL: url, Timeout: time.Second, MaxRetries: 2, RetryBase: time.Millisecond}, logger.Nop{})
}

func TestListProductsSendsQueryAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "9", r.URL.Query().Get("offset"))
		assert.Equal(t, "9", r.URL.Query().Get("limit"))
		assert.Equal(t, "c1", r.URL.Query().Get("categoryId"))
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode([]domain.Product{{ID: "p1", Name: "Phone", Price: 10}})
	}))
	defer srv.Close()

	products, err := newTestGateway(srv.URL).ListProducts(context.Background(), staticToken("abc"),
		domain.ListProductsReq{Offset: 9, Limit: 9, CategoryID: "c1"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 10.0, products[0].Price)
}

func TestListProductsDefaultLimitAndNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	products, err := newTestGateway(srv.URL).ListProducts(context.Background(), staticToken(""), domain.ListProductsReq{})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGetProductNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `"Not found"`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestGateway(srv.URL).GetProduct(context.Background(), nil, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrNotFound))
	status, ok := e.HTTPStatus(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProductKeyIsPathEscaped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/a/b?c", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		_ = json.NewEncoder(w).Encode(domain.Product{ID: "a/b?c"})
	}))
	defer srv.Close()

	product, err := newTestGateway(srv.URL).GetProduct(context.Background(), nil, "a/b?c")
	require.NoError(t, err)
	assert.Equal(t, "a/b?c", product.ID)
}

func TestServerErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestGateway(srv.URL).ListCategories(context.Background(), nil, domain.ListCategoriesReq{})
	require.Error(t, err)
	assert.False(t, e.IsNetwork(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestUnreachableHostIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestGateway(url).SearchProducts(context.Background(), nil, domain.SearchProductsReq{Text: "ph"})
	require.Error(t, err)
	assert.True(t, e.IsNetwork(err))
}

func TestUpdateProductSendsPartialBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/p1", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"price": 20.0}, body)

		_, _ = w.Write([]byte(`{"id":"p1","name":"Phone","price":20}`))
	}))
	defer srv.Close()

	price := 20.0
	product, err := newTestGateway(srv.URL).UpdateProduct(context.Background(), staticToken("abc"),
		domain.UpdateProductReq{ID: "p1", Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 20.0, product.Price)
}

func TestDeleteProductFallsBackToRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res, err := newTestGateway(srv.URL).DeleteProduct(context.Background(), staticToken("abc"), domain.DeleteProductReq{ID: "p9"})
	require.NoError(t, err)
	assert.Equal(t, "p9", res.ID)
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth", r.URL.Path)
		var body domain.LoginReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.co", body.Email)
		_, _ = w.Write([]byte(`{"token":"t-1"}`))
	}))
	defer srv.Close()

	res, err := newTestGateway(srv.URL).Login(context.Background(), domain.LoginReq{Email: "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", res.Token)
}
