package http

import (
	"net/http"
	"strings"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// CatalogHandler обслуживает REST API каталога, с которым работает дашборд.
type CatalogHandler struct {
	catalog usecase.CatalogUC
	logger  logger.Logger
}

func NewCatalogHandler(catalog usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// login
//
//	@Summary	Выдача токена
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		domain.LoginReq	true	"Email"
//	@Success	200		{object}	domain.LoginRes
//	@Failure	400		{object}	ErrorResponse
//	@Router		/auth [post]
func (c *CatalogHandler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	token, err := c.catalog.Login(r.Context(), req.Email)
	if err != nil {
		c.writeError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, domain.LoginRes{Token: token})
}

func (c *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
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

	products, err := c.catalog.ListProducts(r.Context(), domain.ListProductsReq{
		Offset:     offset,
		Limit:      limit,
		CategoryID: r.URL.Query().Get("categoryId"),
	})
	if err != nil {
		c.writeError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, nonNil(products))
}

func (c *CatalogHandler) searchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.SearchProducts(r.Context(), r.URL.Query().Get("searchedText"))
	if err != nil {
		c.writeError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, nonNil(products))
}

func (c *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := c.catalog.GetProduct(r.Context(), chi.URLParam(r, "idOrSlug"))
	if err != nil {
		c.writeError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, product)
}

func (c *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
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

	categories, err := c.catalog.ListCategories(r.Context(), domain.ListCategoriesReq{Offset: offset, Limit: limit})
	if err != nil {
		c.writeError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, nonNil(categories))
}

func (c *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	product, err := c.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		c.writeError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, product)
}

func (c *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProductReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	req.ID = chi.URLParam(r, "id")

	product, err := c.catalog.UpdateProduct(r.Context(), req)
	if err != nil {
		c.writeError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, product)
}

func (c *CatalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	res, err := c.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.writeError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res)
}

func (c *CatalogHandler) writeError(w http.ResponseWriter, err error) {
	if code, _ := ToHTTPResponse(err); code >= http.StatusInternalServerError {
		c.logger.Errorf(err, "catalog request failed")
	}
	WriteError(w, err)
}

// RequireBearer пропускает запрос только с действующим токеном в Authorization.
func RequireBearer(tokens usecase.TokenIssuer, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				WriteError(w, e.ErrTokenMissing)
				return
			}

			subject, err := tokens.Verify(strings.TrimSpace(raw))
			if err != nil {
				log.Debugf("rejected token for %s %s: %v", r.Method, r.URL.Path, err)
				WriteError(w, e.ErrUnauthorized)
				return
			}

			log.Debugf("%s %s by %s", r.Method, r.URL.Path, subject)
			next.ServeHTTP(w, r)
		})
	}
}

// nonNil отдаёт [] вместо null для пустых списков.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
