package converter

import "time"

// ProductModel представляет запись таблицы products вместе с присоединённой категорией.
type ProductModel struct {
	ID          int64    `db:"id"`
	Name        string   `db:"name"`
	Description *string  `db:"description"`
	Images      []string `db:"images"`
	Price       float64  `db:"price"`
	Slug        *string  `db:"slug"`
	CategoryID  *int64   `db:"category_id"`
	Category    *CategoryModel
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Image       *string   `db:"image"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ProductID   int64      `db:"product_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
