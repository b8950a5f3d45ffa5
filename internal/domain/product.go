package domain

import "time"

// Product описывает товар в том виде, в каком его отдаёт удалённый API.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Images      []string   `json:"images,omitempty"`
	Price       float64    `json:"price"`
	Slug        *string    `json:"slug,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Merge переносит поля обновлённого товара в p (аналог Object.assign для кэшированной копии).
func (p *Product) Merge(updated *Product) {
	if updated == nil {
		return
	}
	if updated.ID != "" {
		p.ID = updated.ID
	}
	if updated.Name != "" {
		p.Name = updated.Name
	}
	if updated.Description != nil {
		p.Description = updated.Description
	}
	if updated.Images != nil {
		p.Images = updated.Images
	}
	if updated.Price != 0 {
		p.Price = updated.Price
	}
	if updated.Slug != nil {
		p.Slug = updated.Slug
	}
	if updated.Category != nil {
		p.Category = updated.Category
	}
	if updated.CreatedAt != nil {
		p.CreatedAt = updated.CreatedAt
	}
	if updated.UpdatedAt != nil {
		p.UpdatedAt = updated.UpdatedAt
	}
}

// Clone возвращает копию, которую можно менять, не затрагивая кэш.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	if p.Images != nil {
		c.Images = append([]string(nil), p.Images...)
	}
	if p.Category != nil {
		cat := *p.Category
		c.Category = &cat
	}
	return &c
}

// Locator — адрес страницы товара: slug, если он есть, иначе id.
func (p *Product) Locator() string {
	if p.Slug != nil && *p.Slug != "" {
		return *p.Slug
	}
	return p.ID
}

func NewProduct(id, name string, price float64) *Product {
	return &Product{
		ID:    id,
		Name:  name,
		Price: price,
	}
}
