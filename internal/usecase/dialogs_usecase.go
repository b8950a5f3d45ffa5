package usecase

import (
	"context"
	"errors"

	"github.com/DRSN-tech/product-dashboard/internal/confirm"
	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
)

const (
	DialogEdit   = "edit"
	DialogDelete = "delete"
)

// DialogState — состояние диалога подтверждения для отображения.
type DialogState struct {
	Dialog    string `json:"dialog"`
	State     string `json:"state"`
	ID        string `json:"id,omitempty"`
	ProductID string `json:"productId,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// DialogsUseCase связывает координаторы изменений с диалогами подтверждения редактирования и удаления.
type DialogsUseCase struct {
	edit   *confirm.Flow[domain.UpdateProductReq, *domain.Product]
	delete *confirm.Flow[domain.DeleteProductReq, *domain.DeleteProductRes]
	feed   *NotificationFeed
	logger logger.Logger
}

func NewDialogsUC(products *ProductUseCase, feed *NotificationFeed, logger logger.Logger) *DialogsUseCase {
	d := &DialogsUseCase{feed: feed, logger: logger}

	d.edit = confirm.NewFlow(DialogEdit,
		func(ctx context.Context, req domain.UpdateProductReq) (*domain.Product, error) {
			return products.UpdateAndPatch(ctx, req).Unwrap()
		}, confirm.Options{}, logger)

	d.delete = confirm.NewFlow(DialogDelete,
		func(ctx context.Context, req domain.DeleteProductReq) (*domain.DeleteProductRes, error) {
			return products.DeleteProduct(ctx, req).Unwrap()
		}, confirm.Options{}, logger)

	return d
}

// SubmitEdit ждёт подтверждения правки. Проверка запроса идёт до открытия диалога.
func (d *DialogsUseCase) SubmitEdit(ctx context.Context, req domain.UpdateProductReq) (*domain.Product, error) {
	const op = "DialogsUseCase.SubmitEdit"

	if err := domain.Validate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := d.edit.Submit(ctx, req)
	if err != nil {
		d.report(err, "Failed to update product")
		return nil, e.Wrap(op, err)
	}

	d.feed.Success("Product updated successfully!")
	return product, nil
}

// SubmitDelete ждёт подтверждения удаления.
func (d *DialogsUseCase) SubmitDelete(ctx context.Context, req domain.DeleteProductReq) (*domain.DeleteProductRes, error) {
	const op = "DialogsUseCase.SubmitDelete"

	if err := domain.Validate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	res, err := d.delete.Submit(ctx, req)
	if err != nil {
		d.report(err, "Failed to delete product")
		return nil, e.Wrap(op, err)
	}

	d.feed.Success("Product deleted successfully")
	return res, nil
}

// Confirm подтверждает ожидающее действие диалога.
func (d *DialogsUseCase) Confirm(ctx context.Context, dialog string) error {
	const op = "DialogsUseCase.Confirm"

	var err error
	switch dialog {
	case DialogEdit:
		_, err = d.edit.Confirm(ctx)
	case DialogDelete:
		_, err = d.delete.Confirm(ctx)
	default:
		err = e.ErrUnknownDialog
	}
	if err != nil {
		return e.Wrap(op, err)
	}
	return nil
}

// Cancel отклоняет ожидающее действие диалога.
func (d *DialogsUseCase) Cancel(dialog, reason string) error {
	const op = "DialogsUseCase.Cancel"

	if reason == "" {
		reason = "user cancelled"
	}

	var err error
	switch dialog {
	case DialogEdit:
		err = d.edit.Cancel(reason)
	case DialogDelete:
		err = d.delete.Cancel(reason)
	default:
		err = e.ErrUnknownDialog
	}
	if err != nil {
		return e.Wrap(op, err)
	}
	return nil
}

func (d *DialogsUseCase) State(dialog string) (*DialogState, error) {
	switch dialog {
	case DialogEdit:
		s := d.edit.Snapshot()
		st := &DialogState{Dialog: dialog, State: s.State.String(), ID: s.ID}
		if s.Payload != nil {
			st.ProductID = s.Payload.ID
			st.Payload = s.Payload
		}
		return st, nil
	case DialogDelete:
		s := d.delete.Snapshot()
		st := &DialogState{Dialog: dialog, State: s.State.String(), ID: s.ID}
		if s.Payload != nil {
			st.ProductID = s.Payload.ID
			st.Payload = s.Payload
		}
		return st, nil
	default:
		return nil, e.Wrap("DialogsUseCase.State", e.ErrUnknownDialog)
	}
}

// report публикует уведомление об ошибке. Отмена и занятость диалога ошибкой не считаются.
func (d *DialogsUseCase) report(err error, message string) {
	switch {
	case e.IsCancellation(err):
		d.logger.Debugf("submission cancelled: %v", err)
	case errors.Is(err, e.ErrFlowBusy):
		d.logger.Debugf("submission ignored, dialog busy")
	default:
		d.logger.Errorf(err, "%s", message)
		d.feed.Error(message)
	}
}
