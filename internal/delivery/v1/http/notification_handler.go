package http

import "net/http"

type NotificationHandler struct {
	notes Notifications
}

func NewNotificationHandler(notes Notifications) *NotificationHandler {
	return &NotificationHandler{notes: notes}
}

// drain отдаёт накопленные уведомления и очищает ленту.
func (n *NotificationHandler) drain(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]any{"items": n.notes.Drain()})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
