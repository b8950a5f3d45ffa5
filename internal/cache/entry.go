package cache

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
)

// Key — операция и канонический JSON её аргументов.
type Key struct {
	Op   string
	Args string
}

// KeyFor строит ключ. encoding/json сортирует ключи map, поэтому одинаковые аргументы дают одинаковый ключ.
func KeyFor(op string, args any) Key {
	raw, err := json.Marshal(args)
	if err != nil {
		raw = []byte("null")
	}
	return Key{Op: op, Args: string(raw)}
}

func (k Key) String() string {
	return k.Op + "(" + k.Args + ")"
}

// Entry — закэшированный результат запроса.
type Entry struct {
	Value      any
	Tags       []domain.Tag
	Stale      bool
	Generation uint64
	UpdatedAt  time.Time
}

// Entries — содержимое кэша.
type Entries map[Key]Entry

// InvalidateEntries помечает устаревшими записи, чьи теги пересекаются с tags.
// Исходную карту не меняет.
func InvalidateEntries(entries Entries, tags ...domain.Tag) Entries {
	out := make(Entries, len(entries))
	for k, en := range entries {
		if !en.Stale && intersects(en.Tags, tags) {
			en.Stale = true
		}
		out[k] = en
	}
	return out
}

func intersects(entryTags, tags []domain.Tag) bool {
	for _, et := range entryTags {
		for _, t := range tags {
			if t.Matches(et) {
				return true
			}
		}
	}
	return false
}

// Snapshot — запись в сериализованном виде для внешнего хранилища.
type Snapshot struct {
	Key   Key
	Value json.RawMessage
	Tags  []domain.Tag
}
