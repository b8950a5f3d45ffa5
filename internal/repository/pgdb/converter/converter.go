package converter

import (
	"strconv"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []*ProductModel) []domain.Product
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToEntity(model *CategoryModel) *domain.Category
	ToArrEntity(models []*CategoryModel) []domain.Category
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type productConverter struct {
	categories categoryConverter
}

func NewProductConverter() ProductConverter {
	return productConverter{}
}

func (p productConverter) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	images := model.Images
	if images == nil {
		images = []string{}
	}

	return &domain.Product{
		ID:          strconv.FormatInt(model.ID, 10),
		Name:        model.Name,
		Description: model.Description,
		Images:      images,
		Price:       model.Price,
		Slug:        model.Slug,
		Category:    p.categories.ToEntity(model.Category),
		CreatedAt:   ConvertPointerTime(&model.CreatedAt),
		UpdatedAt:   ConvertPointerTime(model.UpdatedAt),
	}
}

func (p productConverter) ToArrEntity(models []*ProductModel) []domain.Product {
	out := make([]domain.Product, 0, len(models))
	for _, m := range models {
		out = append(out, *p.ToEntity(m))
	}
	return out
}

type categoryConverter struct{}

func NewCategoryConverter() CategoryConverter {
	return categoryConverter{}
}

func (categoryConverter) ToEntity(model *CategoryModel) *domain.Category {
	if model == nil {
		return nil
	}
	return &domain.Category{
		ID:          strconv.FormatInt(model.ID, 10),
		Name:        model.Name,
		Image:       model.Image,
		Description: model.Description,
		CreatedAt:   ConvertPointerTime(&model.CreatedAt),
	}
}

func (c categoryConverter) ToArrEntity(models []*CategoryModel) []domain.Category {
	out := make([]domain.Category, 0, len(models))
	for _, m := range models {
		out = append(out, *c.ToEntity(m))
	}
	return out
}

type outboxEventConverter struct{}

func NewOutboxEventConverter() OutboxEventConverter {
	return outboxEventConverter{}
}

func (outboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		ProductID:   entity.ProductID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: ConvertPointerTime(entity.ProcessedAt),
	}
}

func (outboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		ProductID:   model.ProductID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: ConvertPointerTime(model.ProcessedAt),
	}
}

func (o outboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	out := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		out = append(out, o.ToEntity(m))
	}
	return out
}

// ConvertPointerTime копирует время, чтобы сущность не делила память с моделью.
func ConvertPointerTime(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := *t
	return &v
}
