//go:generate mockgen -source=usecase.go -destination=mocks/usecase_mock.go -package=mocks

package usecase

import (
	"context"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
)

// ProductUC — координаторы запросов дашборда.
type ProductUC interface {
	ListProducts(ctx context.Context, req domain.ListProductsReq) Result[[]domain.Product]
	SearchProducts(ctx context.Context, req domain.SearchProductsReq) Result[[]domain.Product]
	GetProduct(ctx context.Context, req domain.GetProductReq) Result[*domain.Product]
	GetProductByID(ctx context.Context, id string) Result[*domain.Product]
	GetProductBySlug(ctx context.Context, slug string) Result[*domain.Product]
	ListCategories(ctx context.Context, req domain.ListCategoriesReq) Result[[]domain.Category]
	CreateProduct(ctx context.Context, req domain.CreateProductReq) Result[*domain.Product]
	UpdateProduct(ctx context.Context, req domain.UpdateProductReq) Result[*domain.Product]
	DeleteProduct(ctx context.Context, req domain.DeleteProductReq) Result[*domain.DeleteProductRes]
	UpdateAndPatch(ctx context.Context, req domain.UpdateProductReq) Result[*domain.Product]
	PrepareSubmission(ctx context.Context, form ProductForm) (SubmissionPayload, error)
	DiscardUploads(urls []string)
	RelatedProducts(ctx context.Context, product *domain.Product) Result[[]domain.Product]
	WaitProductChange(ctx context.Context, id string) Result[*domain.Product]
}

type AuthUC interface {
	Login(ctx context.Context, email, from string) (*LoginRes, error)
	Logout(ctx context.Context) error
	IsAuthenticated() bool
}

// DialogsUC — диалоги подтверждения правки и удаления.
type DialogsUC interface {
	SubmitEdit(ctx context.Context, req domain.UpdateProductReq) (*domain.Product, error)
	SubmitDelete(ctx context.Context, req domain.DeleteProductReq) (*domain.DeleteProductRes, error)
	Confirm(ctx context.Context, dialog string) error
	Cancel(dialog, reason string) error
	State(dialog string) (*DialogState, error)
}

// CatalogUC — бизнес-логика mock API.
type CatalogUC interface {
	Login(ctx context.Context, email string) (string, error)
	ListProducts(ctx context.Context, req domain.ListProductsReq) ([]domain.Product, error)
	SearchProducts(ctx context.Context, text string) ([]domain.Product, error)
	GetProduct(ctx context.Context, idOrSlug string) (*domain.Product, error)
	ListCategories(ctx context.Context, req domain.ListCategoriesReq) ([]domain.Category, error)
	CreateProduct(ctx context.Context, req domain.CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, req domain.UpdateProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) (*domain.DeleteProductRes, error)
}
