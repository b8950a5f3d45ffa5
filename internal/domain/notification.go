package domain

import "time"

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelInfo    NotificationLevel = "info"
)

// Notification — короткое сообщение для пользователя (toast).
type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
}
