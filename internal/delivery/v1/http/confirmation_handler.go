package http

import (
	"net/http"

	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type cancelRequest struct {
	Reason string `json:"reason"`
}

// ConfirmationHandler отдаёт состояние диалогов подтверждения и принимает решение пользователя.
type ConfirmationHandler struct {
	dialogs usecase.DialogsUC
	logger  logger.Logger
}

func NewConfirmationHandler(dialogs usecase.DialogsUC, logger logger.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{dialogs: dialogs, logger: logger}
}

func (c *ConfirmationHandler) state(w http.ResponseWriter, r *http.Request) {
	st, err := c.dialogs.State(chi.URLParam(r, "dialog"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, st)
}

// confirm возвращает ответ после того, как действие выполнено.
func (c *ConfirmationHandler) confirm(w http.ResponseWriter, r *http.Request) {
	dialog := chi.URLParam(r, "dialog")

	if err := c.dialogs.Confirm(r.Context(), dialog); err != nil {
		WriteError(w, err)
		return
	}

	c.writeState(w, dialog)
}

func (c *ConfirmationHandler) cancel(w http.ResponseWriter, r *http.Request) {
	dialog := chi.URLParam(r, "dialog")

	var req cancelRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			WriteError(w, err)
			return
		}
	}

	if err := c.dialogs.Cancel(dialog, req.Reason); err != nil {
		WriteError(w, err)
		return
	}

	c.writeState(w, dialog)
}

func (c *ConfirmationHandler) writeState(w http.ResponseWriter, dialog string) {
	st, err := c.dialogs.State(dialog)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, st)
}
