package usecase

import (
	"sync"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/google/uuid"
)

const defaultFeedSize = 50

// NotificationFeed — ограниченная очередь уведомлений для пользователя. Старые вытесняются новыми.
type NotificationFeed struct {
	mu    sync.Mutex
	items []domain.Notification
	size  int
	now   func() time.Time
}

func NewNotificationFeed(size int) *NotificationFeed {
	if size <= 0 {
		size = defaultFeedSize
	}
	return &NotificationFeed{size: size, now: time.Now}
}

func (f *NotificationFeed) Push(level domain.NotificationLevel, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, domain.Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: f.now(),
	})
	if over := len(f.items) - f.size; over > 0 {
		f.items = append([]domain.Notification(nil), f.items[over:]...)
	}
}

func (f *NotificationFeed) Success(message string) { f.Push(domain.LevelSuccess, message) }
func (f *NotificationFeed) Error(message string)   { f.Push(domain.LevelError, message) }

// Drain возвращает накопленные уведомления и очищает очередь.
func (f *NotificationFeed) Drain() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.items
	f.items = nil
	if out == nil {
		out = []domain.Notification{}
	}
	return out
}
