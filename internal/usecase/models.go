package usecase

import (
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
)

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

// ProductForm — данные формы товара до загрузки изображения.
type ProductForm struct {
	Name        string
	Description string
	Price       float64
	CategoryID  string
	Image       *ProductImage // новое изображение; nil: оставить прежние
	Previous    []string      // текущие изображения товара
}

// SubmissionPayload — тело формы, готовое к отправке.
type SubmissionPayload struct {
	Name        string
	Description string
	Price       float64
	Images      []string
	CategoryID  string
	// UploadErr — загрузка не удалась, Images содержит прежние изображения
	UploadErr error
	// Uploaded — адреса, загруженные для этой формы; удаляются, если отправка не состоялась
	Uploaded []string
}

// ToCreate строит запрос на создание.
func (p SubmissionPayload) ToCreate() domain.CreateProductReq {
	return domain.CreateProductReq{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Images:      p.Images,
		CategoryID:  p.CategoryID,
	}
}

// ToUpdate строит частичное обновление; пустая категория не отправляется.
func (p SubmissionPayload) ToUpdate(id string) domain.UpdateProductReq {
	req := domain.UpdateProductReq{
		ID:          id,
		Name:        &p.Name,
		Description: &p.Description,
		Price:       &p.Price,
	}
	images := append([]string{}, p.Images...)
	req.Images = &images
	if p.CategoryID != "" {
		req.CategoryID = &p.CategoryID
	}
	return req
}

// LoginRes — результат входа для слоя доставки.
type LoginRes struct {
	Token    string
	Redirect string
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductCreated OutboxEventType = "product.created"
	ProductUpdated OutboxEventType = "product.updated"
	ProductDeleted OutboxEventType = "product.deleted"
)

// OutboxEvent — событие об изменении товара, записанное в той же транзакции, что и изменение.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, productID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		ProductID: productID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	}
}
