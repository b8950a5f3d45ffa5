package domain

import "time"

// Category описывает категорию товара
type Category struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Image       *string    `json:"image,omitempty"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

func NewCategory(id, name string) *Category {
	return &Category{
		ID:   id,
		Name: name,
	}
}
