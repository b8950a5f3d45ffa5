package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/cache"
	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/session"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/internal/usecase/mocks"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	api      *mocks.MockRemoteAPI
	images   *mocks.MockImagesInfra
	session  *session.Store
	cache    *cache.Cache
	feed     *usecase.NotificationFeed
	products *usecase.ProductUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		api:     mocks.NewMockRemoteAPI(ctrl),
		images:  mocks.NewMockImagesInfra(ctrl),
		session: session.NewStore(session.NewMemoryJar(), session.Options{}, logger.Nop{}),
		cache:   cache.New(cache.Options{}, logger.Nop{}),
		feed:    usecase.NewNotificationFeed(10),
	}
	f.products = usecase.NewProductUC(f.api, f.session, f.cache, f.images, f.feed, logger.Nop{})
	return f
}

func page(from, n int) []domain.Product {
	out := make([]domain.Product, 0, n)
	for i := from; i < from+n; i++ {
		out = append(out, *domain.NewProduct(fmt.Sprint(i), fmt.Sprintf("Product %d", i), 10))
	}
	return out
}

func messages(feed *usecase.NotificationFeed) []string {
	var out []string
	for _, n := range feed.Drain() {
		out = append(out, n.Message)
	}
	return out
}

func TestProductUseCase_ConcurrentReadsShareOneRequest(t *testing.T) {
	f := newFixture(t)

	var calls atomic.Int32
	f.api.EXPECT().
		ListProducts(gomock.Any(), gomock.Any(), domain.ListProductsReq{Limit: 9}).
		DoAndReturn(func(context.Context, usecase.TokenSource, domain.ListProductsReq) ([]domain.Product, error) {
			calls.Add(1)
			time.Sleep(50 * time.Millisecond)
			return page(1, 9), nil
		}).
		Times(1)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := f.products.ListProducts(context.Background(), domain.ListProductsReq{Limit: 9})
			assert.True(t, res.IsOk())
			assert.Len(t, res.Value, 9)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
}

func TestProductUseCase_CreateInvalidatesList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gomock.InOrder(
		f.api.EXPECT().ListProducts(gomock.Any(), gomock.Any(), gomock.Any()).Return(page(1, 2), nil),
		f.api.EXPECT().CreateProduct(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.NewProduct("3", "New", 5), nil),
		f.api.EXPECT().ListProducts(gomock.Any(), gomock.Any(), gomock.Any()).Return(page(1, 3), nil),
	)

	require.Len(t, f.products.ListProducts(ctx, domain.ListProductsReq{}).Value, 2)
	// повторное чтение из кэша
	require.Len(t, f.products.ListProducts(ctx, domain.ListProductsReq{}).Value, 2)

	res := f.products.CreateProduct(ctx, domain.CreateProductReq{Name: "New", Price: 5})
	require.True(t, res.IsOk())

	assert.Len(t, f.products.ListProducts(ctx, domain.ListProductsReq{}).Value, 3)
}

func TestProductUseCase_ValidationBeforeNetwork(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.products.CreateProduct(ctx, domain.CreateProductReq{Name: "Free", Price: 0})
	require.False(t, res.IsOk())
	assert.True(t, e.IsValidation(res.Err))
	assert.ErrorIs(t, res.Err, e.ErrPriceMustBePositive)

	neg := -1.0
	upd := f.products.UpdateProduct(ctx, domain.UpdateProductReq{ID: "1", Price: &neg})
	assert.True(t, e.IsValidation(upd.Err))
}

func TestProductUseCase_DeleteRefetchIsServerAuthoritative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := domain.ListProductsReq{Offset: 9, Limit: 9}

	afterDelete := append(page(10, 2), page(13, 7)...)
	gomock.InOrder(
		f.api.EXPECT().ListProducts(gomock.Any(), gomock.Any(), req).Return(page(10, 9), nil),
		f.api.EXPECT().DeleteProduct(gomock.Any(), gomock.Any(), domain.DeleteProductReq{ID: "12"}).
			Return(&domain.DeleteProductRes{ID: "12"}, nil),
		f.api.EXPECT().ListProducts(gomock.Any(), gomock.Any(), req).Return(afterDelete, nil),
	)

	before := f.products.ListProducts(ctx, req)
	require.Len(t, before.Value, 9)

	del := f.products.DeleteProduct(ctx, domain.DeleteProductReq{ID: "12"})
	require.True(t, del.IsOk())

	after := f.products.ListProducts(ctx, req)
	require.True(t, after.IsOk())
	assert.Equal(t, afterDelete, after.Value)
}

func TestProductUseCase_GetProductFallsBackToID(t *testing.T) {
	f := newFixture(t)

	f.api.EXPECT().GetProduct(gomock.Any(), gomock.Any(), "hoodie").
		Return(nil, e.NewHTTPError("GET", 404, "not found"))
	f.api.EXPECT().GetProduct(gomock.Any(), gomock.Any(), "7").
		Return(domain.NewProduct("7", "Hoodie", 12), nil)

	res := f.products.GetProduct(context.Background(), domain.GetProductReq{Slug: "hoodie", ID: "7"})
	require.True(t, res.IsOk())
	assert.Equal(t, "7", res.Value.ID)
}

func TestProductUseCase_GetProductSameKeyAsksOnce(t *testing.T) {
	f := newFixture(t)

	f.api.EXPECT().GetProduct(gomock.Any(), gomock.Any(), "42").
		Return(nil, e.NewHTTPError("GET", 404, "not found")).
		Times(1)

	res := f.products.GetProduct(context.Background(), domain.GetProductReq{Slug: "42", ID: "42"})
	require.False(t, res.IsOk())
	assert.True(t, errors.Is(res.Err, e.ErrNotFound))
}

func TestProductUseCase_DiscardUploads(t *testing.T) {
	f := newFixture(t)

	f.images.EXPECT().CleanupImages([]string{"https://cdn/new.png"}).Times(1)
	f.products.DiscardUploads([]string{"https://cdn/new.png"})

	// пустой список не доходит до хранилища
	f.products.DiscardUploads(nil)
}

func TestProductUseCase_WaitProductChange(t *testing.T) {
	t.Run("returns fresh value after update", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		price := 10.0
		f.api.EXPECT().GetProduct(gomock.Any(), gomock.Any(), "3").
			DoAndReturn(func(context.Context, usecase.TokenSource, string) (*domain.Product, error) {
				return domain.NewProduct("3", "Mug", price), nil
			}).
			Times(2)
		f.api.EXPECT().UpdateProduct(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ usecase.TokenSource, req domain.UpdateProductReq) (*domain.Product, error) {
				price = *req.Price
				return domain.NewProduct("3", "Mug", price), nil
			})

		require.True(t, f.products.GetProductByID(ctx, "3").IsOk())

		done := make(chan usecase.Result[*domain.Product], 1)
		go func() { done <- f.products.WaitProductChange(ctx, "3") }()

		time.Sleep(20 * time.Millisecond)
		newPrice := 15.0
		require.True(t, f.products.UpdateProduct(ctx, domain.UpdateProductReq{ID: "3", Price: &newPrice}).IsOk())

		select {
		case res := <-done:
			require.True(t, res.IsOk())
			assert.Equal(t, 15.0, res.Value.Price)
		case <-time.After(time.Second):
			t.Fatal("watcher was not woken")
		}
	})

	t.Run("gives up with the context", func(t *testing.T) {
		f := newFixture(t)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		res := f.products.WaitProductChange(ctx, "3")
		require.False(t, res.IsOk())
		assert.True(t, errors.Is(res.Err, context.DeadlineExceeded))
	})
}

func TestProductUseCase_RelatedProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product := domain.NewProduct("2", "Product 2", 10)
	product.Category = domain.NewCategory("c1", "Clothes")

	f.api.EXPECT().
		ListProducts(gomock.Any(), gomock.Any(), domain.ListProductsReq{CategoryID: "c1", Limit: 5}).
		Return(page(1, 5), nil).
		Times(1)

	res := f.products.RelatedProducts(ctx, product)
	require.True(t, res.IsOk())
	ids := make([]string, 0, len(res.Value))
	for _, p := range res.Value {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"1", "3", "4", "5"}, ids)

	// без категории запрос не нужен
	empty := f.products.RelatedProducts(ctx, domain.NewProduct("9", "Loose", 1))
	require.True(t, empty.IsOk())
	assert.Empty(t, empty.Value)
}

func TestProductUseCase_FailedReadIsNotCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gomock.InOrder(
		f.api.EXPECT().ListCategories(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, e.NewNetworkError("GET", errors.New("connection refused"))),
		f.api.EXPECT().ListCategories(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]domain.Category{*domain.NewCategory("1", "Clothes")}, nil),
	)

	first := f.products.ListCategories(ctx, domain.ListCategoriesReq{})
	assert.True(t, e.IsNetwork(first.Err))

	second := f.products.ListCategories(ctx, domain.ListCategoriesReq{})
	require.True(t, second.IsOk())
	assert.Len(t, second.Value, 1)
}

func TestProductUseCase_PrepareSubmission(t *testing.T) {
	image := usecase.NewProductImage([]byte("png"), "image/png", 3, "a.png")

	t.Run("upload ok", func(t *testing.T) {
		f := newFixture(t)
		f.images.EXPECT().UploadImages(gomock.Any(), []usecase.ProductImage{*image}).
			Return([]string{"https://cdn/new.png"}, nil)

		payload, err := f.products.PrepareSubmission(context.Background(), usecase.ProductForm{
			Name: " Hoodie ", Price: 10, Image: image, Previous: []string{"https://cdn/old.png"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Hoodie", payload.Name)
		assert.Equal(t, []string{"https://cdn/new.png"}, payload.Images)
		assert.Equal(t, []string{"https://cdn/new.png"}, payload.Uploaded)
		assert.NoError(t, payload.UploadErr)
	})

	t.Run("upload failure keeps previous images", func(t *testing.T) {
		f := newFixture(t)
		f.images.EXPECT().UploadImages(gomock.Any(), gomock.Any()).
			Return(nil, e.NewUploadError("cloudinary", errors.New("503")))

		payload, err := f.products.PrepareSubmission(context.Background(), usecase.ProductForm{
			Name: "Hoodie", Price: 10, Image: image, Previous: []string{"https://cdn/old.png"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn/old.png"}, payload.Images)
		assert.True(t, e.IsUpload(payload.UploadErr))
		assert.Equal(t, []string{"Upload failed"}, messages(f.feed))
	})

	t.Run("invalid price", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.products.PrepareSubmission(context.Background(), usecase.ProductForm{Name: "Hoodie"})
		assert.ErrorIs(t, err, e.ErrPriceMustBePositive)
	})
}
