//go:generate mockgen -source=repository.go -destination=mocks/repository_mock.go -package=mocks

package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
)

// ProductPatch, изменяемые поля товара; nil, не менять.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Images      *[]string
	CategoryID  *int64
}

type ProductRepository interface {
	List(ctx context.Context, offset, limit int, categoryID *int64) ([]domain.Product, error)
	Search(ctx context.Context, text string, limit int) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product, categoryID *int64) (*domain.Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	List(ctx context.Context, offset, limit int) ([]domain.Category, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type OutboxEventRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
