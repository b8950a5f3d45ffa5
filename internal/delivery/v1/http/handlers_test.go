package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/search"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/internal/usecase/mocks"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type dashboard struct {
	products *mocks.MockProductUC
	auth     *mocks.MockAuthUC
	dialogs  *mocks.MockDialogsUC
	session  Session
	feed     *usecase.NotificationFeed
	handler  http.Handler
}

func newDashboard(t *testing.T) *dashboard {
	ctrl := gomock.NewController(t)

	d := &dashboard{
		products: mocks.NewMockProductUC(ctrl),
		auth:     mocks.NewMockAuthUC(ctrl),
		dialogs:  mocks.NewMockDialogsUC(ctrl),
		session:  newTestSession(),
		feed:     usecase.NewNotificationFeed(10),
	}

	mux := chi.NewRouter()
	NewRouter(mux, logger.Nop{}).Init(Deps{
		Products:      d.products,
		Auth:          d.auth,
		Dialogs:       d.dialogs,
		Session:       d.session,
		Notifications: d.feed,
		Browser:       search.NewBrowser(d.products, search.Options{PageSize: 2}, logger.Nop{}),
	})
	d.handler = mux
	return d
}

func (d *dashboard) do(method, target, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authed {
		req.AddCookie(&http.Cookie{Name: d.session.CookieName(), Value: "t1"})
	}

	rec := httptest.NewRecorder()
	d.handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_LoginSetsCookie(t *testing.T) {
	d := newDashboard(t)
	d.auth.EXPECT().
		Login(gomock.Any(), "admin@example.com", "/products/7").
		Return(&usecase.LoginRes{Token: "jwt-1", Redirect: "/products/7"}, nil)

	rec := d.do(http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","from":"/products/7"}`, false)

	require.Equal(t, http.StatusOK, rec.Code)
	var res redirectResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, "/products/7", res.Redirect)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, "jwt-1", cookies[0].Value)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Positive(t, cookies[0].MaxAge)
}

func TestAuthHandler_LoginFailure(t *testing.T) {
	d := newDashboard(t)
	d.auth.EXPECT().
		Login(gomock.Any(), "nobody@example.com", "").
		Return(nil, e.Wrap("AuthUseCase.Login", e.ErrLoginFailed))

	rec := d.do(http.MethodPost, "/api/auth/login", `{"email":"nobody@example.com"}`, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthHandler_LogoutExpiresCookie(t *testing.T) {
	d := newDashboard(t)
	d.auth.EXPECT().Logout(gomock.Any()).Return(nil)

	rec := d.do(http.MethodPost, "/api/auth/logout", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestAuthHandler_LoginPageSanitizesFrom(t *testing.T) {
	d := newDashboard(t)

	rec := d.do(http.MethodGet, "/login?from=https://evil.example.com", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, usecase.DefaultRedirect, body["from"])
}

func TestProductHandler_ListRequiresSession(t *testing.T) {
	d := newDashboard(t)

	rec := d.do(http.MethodGet, "/api/products", "", false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductHandler_List(t *testing.T) {
	d := newDashboard(t)
	d.products.EXPECT().
		ListProducts(gomock.Any(), domain.ListProductsReq{Offset: 10, Limit: 5, CategoryID: "2"}).
		Return(usecase.Ok([]domain.Product{{ID: "1", Name: "Lamp"}}))

	rec := d.do(http.MethodGet, "/api/products?offset=10&limit=5&categoryId=2", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var products []domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, "Lamp", products[0].Name)
}

func TestProductHandler_ListRejectsBadOffset(t *testing.T) {
	d := newDashboard(t)

	rec := d.do(http.MethodGet, "/api/products?offset=-1", "", true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductHandler_CreateNotifies(t *testing.T) {
	d := newDashboard(t)
	d.products.EXPECT().
		CreateProduct(gomock.Any(), domain.CreateProductReq{Name: "Lamp", Price: 12.5}).
		Return(usecase.Ok(&domain.Product{ID: "9", Name: "Lamp", Price: 12.5}))

	rec := d.do(http.MethodPost, "/api/products", `{"name":"Lamp","price":12.5}`, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	notes := d.feed.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.LevelSuccess, notes[0].Level)
	assert.Equal(t, "Product created successfully!", notes[0].Message)
}

func TestProductHandler_CreateNetworkErrorNotifies(t *testing.T) {
	d := newDashboard(t)
	d.products.EXPECT().
		CreateProduct(gomock.Any(), gomock.Any()).
		Return(usecase.Fail[*domain.Product](e.NewNetworkError("POST products", assert.AnError)))

	rec := d.do(http.MethodPost, "/api/products", `{"name":"Lamp","price":1}`, true)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	notes := d.feed.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, "Network error", notes[0].Message)
}

func TestProductHandler_UpdateGoesThroughDialog(t *testing.T) {
	d := newDashboard(t)
	price := 20.0
	d.dialogs.EXPECT().
		SubmitEdit(gomock.Any(), domain.UpdateProductReq{ID: "5", Price: &price}).
		Return(&domain.Product{ID: "5", Price: 20}, nil)

	rec := d.do(http.MethodPut, "/api/products/5", `{"price":20}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	var res ProductResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.InDelta(t, 20.0, res.Product.Price, 1e-9)
	assert.Empty(t, res.UploadError)
}

func TestProductHandler_DeleteCancelled(t *testing.T) {
	d := newDashboard(t)
	d.dialogs.EXPECT().
		SubmitDelete(gomock.Any(), domain.DeleteProductReq{ID: "5"}).
		Return(nil, e.NewCancellationError("dialog closed"))

	rec := d.do(http.MethodDelete, "/api/products/5", "", true)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

// productFormRequest собирает multipart-форму товара с PNG-изображением.
func (d *dashboard) productFormRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 1, 1))))

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("name", "Lamp"))
	require.NoError(t, mw.WriteField("price", "12.5"))
	fw, err := mw.CreateFormFile("image", "lamp.png")
	require.NoError(t, err)
	_, err = fw.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: d.session.CookieName(), Value: "t1"})
	return req
}

func (d *dashboard) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	d.handler.ServeHTTP(rec, req)
	return rec
}

func TestProductHandler_CancelledEditDiscardsUpload(t *testing.T) {
	d := newDashboard(t)
	uploaded := []string{"https://cdn.example.com/new.png"}

	d.products.EXPECT().GetProductByID(gomock.Any(), "5").
		Return(usecase.Ok(&domain.Product{ID: "5", Images: []string{"https://cdn.example.com/old.png"}}))
	d.products.EXPECT().PrepareSubmission(gomock.Any(), gomock.Any()).
		Return(usecase.SubmissionPayload{Name: "Lamp", Price: 12.5, Images: uploaded, Uploaded: uploaded}, nil)
	d.dialogs.EXPECT().SubmitEdit(gomock.Any(), gomock.Any()).
		Return(nil, e.NewCancellationError("dialog closed"))
	d.products.EXPECT().DiscardUploads(uploaded).Times(1)

	rec := d.serve(d.productFormRequest(t, http.MethodPut, "/api/products/5"))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProductHandler_FailedCreateDiscardsUpload(t *testing.T) {
	d := newDashboard(t)
	uploaded := []string{"https://cdn.example.com/new.png"}

	d.products.EXPECT().PrepareSubmission(gomock.Any(), gomock.Any()).
		Return(usecase.SubmissionPayload{Name: "Lamp", Price: 12.5, Images: uploaded, Uploaded: uploaded}, nil)
	d.products.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).
		Return(usecase.Fail[*domain.Product](e.NewHTTPError("POST products", http.StatusInternalServerError, "boom")))
	d.products.EXPECT().DiscardUploads(uploaded).Times(1)

	rec := d.serve(d.productFormRequest(t, http.MethodPost, "/api/products"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestProductHandler_Related(t *testing.T) {
	d := newDashboard(t)
	product := &domain.Product{ID: "7", Slug: nil, Category: &domain.Category{ID: "c1"}}

	d.products.EXPECT().GetProduct(gomock.Any(), domain.GetProductReq{Slug: "hoodie", ID: "hoodie"}).
		Return(usecase.Ok(product))
	d.products.EXPECT().RelatedProducts(gomock.Any(), product).
		Return(usecase.Ok([]domain.Product{{ID: "8"}, {ID: "9"}}))

	rec := d.do(http.MethodGet, "/api/products/hoodie/related", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var related []domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&related))
	assert.Len(t, related, 2)
}

func TestProductHandler_Watch(t *testing.T) {
	t.Run("change", func(t *testing.T) {
		d := newDashboard(t)
		d.products.EXPECT().WaitProductChange(gomock.Any(), "5").
			Return(usecase.Ok(&domain.Product{ID: "5", Price: 30}))

		rec := d.do(http.MethodGet, "/api/products/5/watch?wait=5", "", true)

		require.Equal(t, http.StatusOK, rec.Code)
		var p domain.Product
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
		assert.InDelta(t, 30.0, p.Price, 1e-9)
	})

	t.Run("nothing changed", func(t *testing.T) {
		d := newDashboard(t)
		d.products.EXPECT().WaitProductChange(gomock.Any(), "5").
			Return(usecase.Fail[*domain.Product](e.Wrap("ProductUseCase.WaitProductChange", context.DeadlineExceeded)))

		rec := d.do(http.MethodGet, "/api/products/5/watch?wait=1", "", true)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("bad wait", func(t *testing.T) {
		d := newDashboard(t)

		rec := d.do(http.MethodGet, "/api/products/5/watch?wait=soon", "", true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestConfirmationHandler(t *testing.T) {
	d := newDashboard(t)
	gomock.InOrder(
		d.dialogs.EXPECT().Cancel(usecase.DialogDelete, "changed my mind").Return(nil),
		d.dialogs.EXPECT().State(usecase.DialogDelete).Return(&usecase.DialogState{Dialog: usecase.DialogDelete, State: "idle"}, nil),
	)

	rec := d.do(http.MethodPost, "/api/confirmations/delete/cancel", `{"reason":"changed my mind"}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	var st usecase.DialogState
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	assert.Equal(t, "idle", st.State)
}

func TestConfirmationHandler_ConfirmWithoutPending(t *testing.T) {
	d := newDashboard(t)
	d.dialogs.EXPECT().Confirm(gomock.Any(), usecase.DialogEdit).Return(e.ErrNothingPending)

	rec := d.do(http.MethodPost, "/api/confirmations/edit/confirm", "", true)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBrowserHandler_Paging(t *testing.T) {
	d := newDashboard(t)

	rec := d.do(http.MethodPut, "/api/browser/page", `{"page":3}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var st search.State
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	assert.Equal(t, 4, st.Offset)
	assert.Equal(t, 3, st.Page)

	rec = d.do(http.MethodPut, "/api/browser/category", `{"categoryId":"2"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	assert.Equal(t, 0, st.Offset)
	assert.Equal(t, "2", st.CategoryID)

	rec = d.do(http.MethodPut, "/api/browser/page", `{"direction":"sideways"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBrowserHandler_ImmediateSearchAndWatch(t *testing.T) {
	d := newDashboard(t)

	rec := d.do(http.MethodPost, "/api/browser/search", `{"text":"lamp","immediate":true}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var st search.State
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&st))
	assert.Equal(t, search.ModeSearch, st.Mode)
	assert.Equal(t, "lamp", st.SearchText)
	require.Positive(t, st.Version)

	// более старая версия отдаётся без ожидания
	rec = d.do(http.MethodGet, "/api/browser/watch?version=0", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var watched search.State
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&watched))
	assert.Equal(t, st.Version, watched.Version)

	rec = d.do(http.MethodGet, "/api/browser/watch?version=x", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBrowserHandler_Items(t *testing.T) {
	d := newDashboard(t)
	d.products.EXPECT().
		ListProducts(gomock.Any(), gomock.Any()).
		Return(usecase.Ok([]domain.Product{{ID: "1"}, {ID: "2"}}))

	rec := d.do(http.MethodGet, "/api/browser", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var res browserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Len(t, res.Items, 2)
	assert.Equal(t, search.ModeList, res.State.Mode)
}

func TestNotificationHandler_Drain(t *testing.T) {
	d := newDashboard(t)
	d.feed.Error("Failed to load products")

	rec := d.do(http.MethodGet, "/api/notifications", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []domain.Notification `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Items, 1)
	assert.Empty(t, d.feed.Drain())
}

func newBackend(t *testing.T) (*mocks.MockCatalogUC, *mocks.MockTokenIssuer, http.Handler) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalogUC(ctrl)
	tokens := mocks.NewMockTokenIssuer(ctrl)

	mux := chi.NewRouter()
	NewRouter(mux, logger.Nop{}).InitBackend(catalog, tokens)
	return catalog, tokens, mux
}

func TestCatalogHandler_Login(t *testing.T) {
	catalog, _, h := newBackend(t)
	catalog.EXPECT().Login(gomock.Any(), "admin@example.com").Return("signed", nil)

	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"email":"admin@example.com"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res domain.LoginRes
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, "signed", res.Token)
}

func TestCatalogHandler_EmptyListIsArray(t *testing.T) {
	catalog, _, h := newBackend(t)
	catalog.EXPECT().ListProducts(gomock.Any(), domain.ListProductsReq{}).Return(nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCatalogHandler_MutationsRequireBearer(t *testing.T) {
	catalog, tokens, h := newBackend(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/products/3", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tokens.EXPECT().Verify("bad").Return("", e.ErrUnauthorized)
	req := httptest.NewRequest(http.MethodDelete, "/products/3", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tokens.EXPECT().Verify("good").Return("admin@example.com", nil)
	catalog.EXPECT().DeleteProduct(gomock.Any(), "3").Return(&domain.DeleteProductRes{ID: "3"}, nil)
	req = httptest.NewRequest(http.MethodDelete, "/products/3", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"3"}`, rec.Body.String())
}

func TestCatalogHandler_GetMissing(t *testing.T) {
	catalog, _, h := newBackend(t)
	catalog.EXPECT().GetProduct(gomock.Any(), "no-such-slug").Return(nil, e.Wrap("CatalogUseCase.GetProduct", e.ErrNotFound))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/no-such-slug", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
