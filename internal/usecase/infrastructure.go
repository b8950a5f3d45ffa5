//go:generate mockgen -source=infrastructure.go -destination=mocks/infrastructure_mock.go -package=mocks

package usecase

import (
	"context"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
)

// TokenSource отдаёт текущий токен сессии; передаётся удалённому API в каждом вызове.
type TokenSource interface {
	CurrentToken() (string, bool)
}

// SessionStore — хранилище сессии дашборда.
type SessionStore interface {
	TokenSource
	SetToken(token string) error
	Logout() error
}

// RemoteAPI — удалённый API товаров.
type RemoteAPI interface {
	ListProducts(ctx context.Context, sess TokenSource, req domain.ListProductsReq) ([]domain.Product, error)
	SearchProducts(ctx context.Context, sess TokenSource, req domain.SearchProductsReq) ([]domain.Product, error)
	GetProduct(ctx context.Context, sess TokenSource, idOrSlug string) (*domain.Product, error)
	ListCategories(ctx context.Context, sess TokenSource, req domain.ListCategoriesReq) ([]domain.Category, error)
	CreateProduct(ctx context.Context, sess TokenSource, req domain.CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, sess TokenSource, req domain.UpdateProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, sess TokenSource, req domain.DeleteProductReq) (*domain.DeleteProductRes, error)
	Login(ctx context.Context, req domain.LoginReq) (*domain.LoginRes, error)
}

// ImagesInfra загружает изображения товаров и возвращает их публичные адреса.
type ImagesInfra interface {
	UploadImages(ctx context.Context, images []ProductImage) ([]string, error)
	CleanupImages(urls []string)
}

// EventPublisher публикует события изменения товаров (mock API).
type EventPublisher interface {
	WriteMessages(ctx context.Context, events []*OutboxEvent) error
}

// TokenIssuer выпускает и проверяет токены mock API.
type TokenIssuer interface {
	Issue(email string) (string, error)
	Verify(token string) (string, error)
}
