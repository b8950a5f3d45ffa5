package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
)

// AllCategories — значение фильтра без категории.
const AllCategories = "all"

type Mode string

const (
	ModeList   Mode = "list"
	ModeSearch Mode = "search"
)

// Source — координаторы, из которых браузер берёт товары.
type Source interface {
	ListProducts(ctx context.Context, req domain.ListProductsReq) usecase.Result[[]domain.Product]
	SearchProducts(ctx context.Context, req domain.SearchProductsReq) usecase.Result[[]domain.Product]
}

// State — то, что показывает страница товаров.
type State struct {
	Mode       Mode   `json:"mode"`
	Offset     int    `json:"offset"`
	Limit      int    `json:"limit"`
	Page       int    `json:"page"`
	CategoryID string `json:"categoryId,omitempty"`
	SearchText string `json:"searchText,omitempty"`
	Typing     bool   `json:"typing"`
	// Version растёт при каждом изменении; по нему клиент ждёт следующего состояния.
	Version uint64 `json:"version"`
}

type Options struct {
	PageSize int
	Debounce time.Duration
}

// Browser хранит состояние списка: страницу, категорию и отложенный текст поиска.
// Непустой текст поиска имеет приоритет над списком.
type Browser struct {
	mu     sync.Mutex
	source Source
	logger logger.Logger
	opts   Options

	offset     int
	categoryID string
	searchText string

	debouncer *Debouncer[string]

	version uint64
	// changedCh закрывается и пересоздаётся при каждом изменении
	changedCh chan struct{}
}

func NewBrowser(source Source, opts Options, logger logger.Logger) *Browser {
	if opts.PageSize <= 0 {
		opts.PageSize = domain.DashboardPageSize
	}
	b := &Browser{source: source, opts: opts, logger: logger, changedCh: make(chan struct{})}
	b.debouncer = NewDebouncer(opts.Debounce, b.applySearch)
	return b
}

// Type принимает очередное значение поля поиска.
func (b *Browser) Type(text string) {
	b.debouncer.Push(text)
	b.changed()
}

// Submit отправляет поиск сразу, не дожидаясь паузы ввода (Enter в поле поиска).
func (b *Browser) Submit(text string) {
	b.debouncer.Push(text)
	b.debouncer.Flush()
}

// SetCategory меняет фильтр и сбрасывает страницу; текст поиска сохраняется.
func (b *Browser) SetCategory(categoryID string) {
	if categoryID == AllCategories {
		categoryID = ""
	}

	b.mu.Lock()
	b.categoryID = categoryID
	b.offset = 0
	b.mu.Unlock()

	b.changed()
}

func (b *Browser) NextPage() {
	b.mu.Lock()
	b.offset += b.opts.PageSize
	b.mu.Unlock()

	b.changed()
}

func (b *Browser) PrevPage() {
	b.mu.Lock()
	b.offset = max(0, b.offset-b.opts.PageSize)
	b.mu.Unlock()

	b.changed()
}

// SetPage переходит на страницу с номером page, начиная с 1.
func (b *Browser) SetPage(page int) {
	b.mu.Lock()
	b.offset = max(0, page-1) * b.opts.PageSize
	b.mu.Unlock()

	b.changed()
}

func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// Items загружает текущую страницу или результаты поиска.
// Если страница списка опустела (например, после удаления) и она не первая, браузер отходит на страницу назад.
func (b *Browser) Items(ctx context.Context) (State, usecase.Result[[]domain.Product]) {
	state := b.State()

	if state.Mode == ModeSearch {
		return state, b.source.SearchProducts(ctx, domain.SearchProductsReq{Text: state.SearchText})
	}

	res := b.list(ctx, state)
	if res.IsOk() && len(res.Value) == 0 && state.Offset > 0 {
		b.mu.Lock()
		if b.offset == state.Offset {
			b.offset = max(0, b.offset-b.opts.PageSize)
		}
		state = b.stateLocked()
		b.mu.Unlock()

		b.logger.Debugf("browser: page is empty, stepping back to offset %d", state.Offset)
		res = b.list(ctx, state)
		b.changed()
	}

	return state, res
}

// Wait ждёт состояния новее version. Если оно уже есть, возвращается сразу.
func (b *Browser) Wait(ctx context.Context, version uint64) (State, error) {
	for {
		b.mu.Lock()
		if b.version > version {
			st := b.stateLocked()
			b.mu.Unlock()
			return st, nil
		}
		ch := b.changedCh
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return b.State(), ctx.Err()
		case <-ch:
		}
	}
}

// Close останавливает отложенный поиск.
func (b *Browser) Close() {
	b.debouncer.Stop()
}

func (b *Browser) list(ctx context.Context, state State) usecase.Result[[]domain.Product] {
	return b.source.ListProducts(ctx, domain.ListProductsReq{
		Offset:     state.Offset,
		Limit:      state.Limit,
		CategoryID: state.CategoryID,
	})
}

func (b *Browser) applySearch(text string) {
	b.mu.Lock()
	b.searchText = strings.TrimSpace(text)
	b.mu.Unlock()

	b.changed()
}

func (b *Browser) stateLocked() State {
	mode := ModeList
	if b.searchText != "" {
		mode = ModeSearch
	}
	return State{
		Mode:       mode,
		Offset:     b.offset,
		Limit:      b.opts.PageSize,
		Page:       b.offset/b.opts.PageSize + 1,
		CategoryID: b.categoryID,
		SearchText: b.searchText,
		Typing:     b.debouncer.Pending(),
		Version:    b.version,
	}
}

func (b *Browser) changed() {
	b.mu.Lock()
	b.version++
	close(b.changedCh)
	b.changedCh = make(chan struct{})
	b.mu.Unlock()
}
