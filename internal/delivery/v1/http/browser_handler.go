package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/search"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
)

// Browser — состояние страницы товаров.
type Browser interface {
	Type(text string)
	Submit(text string)
	SetCategory(categoryID string)
	NextPage()
	PrevPage()
	SetPage(page int)
	State() search.State
	Items(ctx context.Context) (search.State, usecase.Result[[]domain.Product])
	Wait(ctx context.Context, version uint64) (search.State, error)
}

// browserSearchRequest: Immediate отправляет поиск без паузы ввода.
type browserSearchRequest struct {
	Text      string `json:"text"`
	Immediate bool   `json:"immediate"`
}

type browserCategoryRequest struct {
	CategoryID string `json:"categoryId"`
}

// browserPageRequest: либо номер страницы, либо direction next/prev.
type browserPageRequest struct {
	Page      int    `json:"page"`
	Direction string `json:"direction"`
}

type browserResponse struct {
	State search.State     `json:"state"`
	Items []domain.Product `json:"items"`
}

type BrowserHandler struct {
	browser Browser
	logger  logger.Logger
}

func NewBrowserHandler(browser Browser, logger logger.Logger) *BrowserHandler {
	return &BrowserHandler{browser: browser, logger: logger}
}

func (b *BrowserHandler) items(w http.ResponseWriter, r *http.Request) {
	state, res := b.browser.Items(r.Context())
	items, err := res.Unwrap()
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, browserResponse{State: state, Items: items})
}

// search принимает ввод; запрос уйдёт после паузы, поэтому ответ 202.
func (b *BrowserHandler) search(w http.ResponseWriter, r *http.Request) {
	var req browserSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if req.Immediate {
		b.browser.Submit(req.Text)
		WriteSuccess(w, http.StatusOK, b.browser.State())
		return
	}

	b.browser.Type(req.Text)
	WriteSuccess(w, http.StatusAccepted, b.browser.State())
}

// watch ждёт состояния новее version, например срабатывания отложенного поиска.
func (b *BrowserHandler) watch(w http.ResponseWriter, r *http.Request) {
	var version uint64
	if raw := r.URL.Query().Get("version"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			WriteError(w, e.NewValidationError("version", "must be a non-negative integer", e.ErrStatusBadRequest))
			return
		}
		version = v
	}

	ctx, cancel, err := longPollContext(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	defer cancel()

	state, err := b.browser.Wait(ctx, version)
	if errors.Is(err, context.DeadlineExceeded) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, state)
}

func (b *BrowserHandler) category(w http.ResponseWriter, r *http.Request) {
	var req browserCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	b.browser.SetCategory(req.CategoryID)
	WriteSuccess(w, http.StatusOK, b.browser.State())
}

func (b *BrowserHandler) page(w http.ResponseWriter, r *http.Request) {
	var req browserPageRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	switch {
	case req.Direction == "next":
		b.browser.NextPage()
	case req.Direction == "prev":
		b.browser.PrevPage()
	case req.Direction == "" && req.Page > 0:
		b.browser.SetPage(req.Page)
	default:
		WriteError(w, e.NewValidationError("page", "expected page >= 1 or direction next/prev", e.ErrStatusBadRequest))
		return
	}

	WriteSuccess(w, http.StatusOK, b.browser.State())
}
