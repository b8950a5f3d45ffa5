package domain

// Значения по умолчанию для списков.
const (
	DefaultProductsLimit   = 10
	DefaultCategoriesLimit = 20
	DashboardPageSize      = 9
)

// ListProductsReq — страница списка товаров с необязательным фильтром по категории.
type ListProductsReq struct {
	Offset     int    `json:"offset" validate:"gte=0"`
	Limit      int    `json:"limit" validate:"gte=0,lte=100"`
	CategoryID string `json:"categoryId,omitempty"`
}

// WithDefaults подставляет лимит по умолчанию.
func (r ListProductsReq) WithDefaults() ListProductsReq {
	if r.Limit == 0 {
		r.Limit = DefaultProductsLimit
	}
	return r
}

type SearchProductsReq struct {
	Text string `json:"searchedText"`
}

// GetProductReq ищет товар по ID или по Slug; задано должно быть ровно одно.
type GetProductReq struct {
	ID   string `json:"id,omitempty"`
	Slug string `json:"slug,omitempty"`
}

type ListCategoriesReq struct {
	Offset int `json:"offset" validate:"gte=0"`
	Limit  int `json:"limit" validate:"gte=0,lte=100"`
}

func (r ListCategoriesReq) WithDefaults() ListCategoriesReq {
	if r.Limit == 0 {
		r.Limit = DefaultCategoriesLimit
	}
	return r
}

// CreateProductReq — тело POST /products.
type CreateProductReq struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price" validate:"gt=0"`
	Images      []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	CategoryID  string   `json:"categoryId,omitempty"`
}

// UpdateProductReq — частичное обновление; nil-поля не отправляются.
type UpdateProductReq struct {
	ID          string    `json:"-" validate:"required"`
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Images      *[]string `json:"images,omitempty"`
	CategoryID  *string   `json:"categoryId,omitempty"`
}

type DeleteProductReq struct {
	ID string `json:"id" validate:"required"`
}

// DeleteProductRes — ответ DELETE /products/{id}.
type DeleteProductRes struct {
	ID string `json:"id"`
}

type LoginReq struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRes struct {
	Token string `json:"token"`
}
