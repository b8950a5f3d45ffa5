package domain

import "strings"

// Tag — метка записи кэша: тип сущности и необязательный id.
type Tag struct {
	Type string
	ID   string
}

const (
	TagTypeProduct  = "Product"
	TagTypeCategory = "Category"

	// ListID помечает любой список товаров.
	ListID = "LIST"
)

func ProductTag(id string) Tag {
	return Tag{Type: TagTypeProduct, ID: id}
}

func ProductListTag() Tag {
	return Tag{Type: TagTypeProduct, ID: ListID}
}

func CategoryTag() Tag {
	return Tag{Type: TagTypeCategory}
}

// String возвращает форму "Product:42" или "Category".
func (t Tag) String() string {
	if t.ID == "" {
		return t.Type
	}
	return t.Type + ":" + t.ID
}

// ParseTag обратен String.
func ParseTag(s string) Tag {
	typ, id, _ := strings.Cut(s, ":")
	return Tag{Type: typ, ID: id}
}

// Matches сообщает, задевает ли инвалидация тега t запись с тегом other.
// Тег без id задевает все теги этого типа.
func (t Tag) Matches(other Tag) bool {
	if t.Type != other.Type {
		return false
	}
	return t.ID == "" || other.ID == "" || t.ID == other.ID
}
