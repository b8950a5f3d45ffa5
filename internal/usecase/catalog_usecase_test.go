package usecase_test

import (
	"context"
	"testing"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/internal/usecase/mocks"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type catalogFixture struct {
	products   *mocks.MockProductRepository
	categories *mocks.MockCategoryRepository
	outbox     *mocks.MockOutboxEventRepository
	tokens     *mocks.MockTokenIssuer
	uc         *usecase.CatalogUseCase
}

// Транзакционные методы проверяются только до открытия транзакции, пул не нужен.
func newCatalogFixture(t *testing.T) *catalogFixture {
	ctrl := gomock.NewController(t)
	f := &catalogFixture{
		products:   mocks.NewMockProductRepository(ctrl),
		categories: mocks.NewMockCategoryRepository(ctrl),
		outbox:     mocks.NewMockOutboxEventRepository(ctrl),
		tokens:     mocks.NewMockTokenIssuer(ctrl),
	}
	f.uc = usecase.NewCatalogUC(f.products, f.categories, f.outbox, nil, f.tokens, logger.Nop{})
	return f
}

func TestCatalog_Login(t *testing.T) {
	f := newCatalogFixture(t)
	f.tokens.EXPECT().Issue("admin@example.com").Return("jwt", nil)

	token, err := f.uc.Login(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jwt", token)

	_, err = f.uc.Login(context.Background(), "nope")
	assert.True(t, e.IsValidation(err))
}

func TestCatalog_ListProducts(t *testing.T) {
	f := newCatalogFixture(t)
	cat := int64(3)

	f.products.EXPECT().List(gomock.Any(), 0, domain.DefaultProductsLimit, (*int64)(nil)).Return(page(1, 2), nil)
	f.products.EXPECT().List(gomock.Any(), 9, 9, &cat).Return(page(10, 1), nil)

	got, err := f.uc.ListProducts(context.Background(), domain.ListProductsReq{})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.uc.ListProducts(context.Background(), domain.ListProductsReq{Offset: 9, Limit: 9, CategoryID: "3"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = f.uc.ListProducts(context.Background(), domain.ListProductsReq{CategoryID: "abc"})
	assert.True(t, e.IsValidation(err))
}

func TestCatalog_GetProductSlugThenID(t *testing.T) {
	f := newCatalogFixture(t)

	f.products.EXPECT().GetBySlug(gomock.Any(), "15").Return(nil, e.ErrNotFound)
	f.products.EXPECT().GetByID(gomock.Any(), int64(15)).Return(domain.NewProduct("15", "Boots", 36), nil)

	p, err := f.uc.GetProduct(context.Background(), "15")
	require.NoError(t, err)
	assert.Equal(t, "Boots", p.Name)

	f.products.EXPECT().GetBySlug(gomock.Any(), "unknown-slug").Return(nil, e.ErrNotFound)
	_, err = f.uc.GetProduct(context.Background(), "unknown-slug")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestCatalog_SearchBlankIsEmpty(t *testing.T) {
	f := newCatalogFixture(t)

	got, err := f.uc.SearchProducts(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)

	f.products.EXPECT().Search(gomock.Any(), "shirt", gomock.Any()).Return(page(1, 1), nil)
	got, err = f.uc.SearchProducts(context.Background(), " shirt ")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCatalog_MutationsValidateBeforeTransaction(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateProduct(ctx, domain.CreateProductReq{Name: "", Price: 1})
	assert.ErrorIs(t, err, e.ErrProductNameRequired)

	_, err = f.uc.CreateProduct(ctx, domain.CreateProductReq{Name: "Cap", Price: 0.001})
	assert.ErrorIs(t, err, e.ErrPricePrecision)

	f.categories.EXPECT().Exists(gomock.Any(), int64(99)).Return(false, nil)
	_, err = f.uc.CreateProduct(ctx, domain.CreateProductReq{Name: "Cap", Price: 5, CategoryID: "99"})
	assert.True(t, e.IsValidation(err))

	_, err = f.uc.UpdateProduct(ctx, domain.UpdateProductReq{ID: "x"})
	assert.True(t, e.IsValidation(err))

	_, err = f.uc.DeleteProduct(ctx, "0")
	assert.True(t, e.IsValidation(err))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Classic Red Hoodie":   "classic-red-hoodie",
		"  Wireless -- Mouse!": "wireless-mouse",
		"Кресло 2000":          "кресло-2000",
		"!!!":                  "product",
	}
	for in, want := range cases {
		assert.Equal(t, want, usecase.Slugify(in), in)
	}
}
