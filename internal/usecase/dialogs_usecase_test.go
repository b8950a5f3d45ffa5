package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/confirm"
	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type submitResult[R any] struct {
	value R
	err   error
}

func waitAwaiting(t *testing.T, d *usecase.DialogsUseCase, dialog string) {
	t.Helper()
	require.Eventually(t, func() bool {
		st, err := d.State(dialog)
		return err == nil && st.State == confirm.AwaitingConfirmation.String()
	}, time.Second, 5*time.Millisecond)
}

func TestDialogs_UpdateConfirmedShowsNewPrice(t *testing.T) {
	f := newFixture(t)
	dialogs := usecase.NewDialogsUC(f.products, f.feed, logger.Nop{})
	ctx := context.Background()

	serverPrice := 10.0
	f.api.EXPECT().GetProduct(gomock.Any(), gomock.Any(), "1").
		DoAndReturn(func(context.Context, usecase.TokenSource, string) (*domain.Product, error) {
			return domain.NewProduct("1", "p1", serverPrice), nil
		}).
		Times(1) // после подтверждения запись отдаётся из кэша
	f.api.EXPECT().UpdateProduct(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.TokenSource, req domain.UpdateProductReq) (*domain.Product, error) {
			serverPrice = *req.Price
			return domain.NewProduct(req.ID, "p1", serverPrice), nil
		}).
		Times(1)

	before := f.products.GetProductByID(ctx, "1")
	require.True(t, before.IsOk())
	require.Equal(t, 10.0, before.Value.Price)

	price := 20.0
	done := make(chan submitResult[*domain.Product], 1)
	go func() {
		p, err := dialogs.SubmitEdit(ctx, domain.UpdateProductReq{ID: "1", Price: &price})
		done <- submitResult[*domain.Product]{p, err}
	}()

	waitAwaiting(t, dialogs, usecase.DialogEdit)
	st, err := dialogs.State(usecase.DialogEdit)
	require.NoError(t, err)
	assert.Equal(t, "1", st.ProductID)

	require.NoError(t, dialogs.Confirm(ctx, usecase.DialogEdit))

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, 20.0, res.value.Price)

	after := f.products.GetProductByID(ctx, "1")
	require.True(t, after.IsOk())
	assert.Equal(t, 20.0, after.Value.Price)
	assert.Contains(t, messages(f.feed), "Product updated successfully!")
}

func TestDialogs_CancelIssuesNoRequest(t *testing.T) {
	f := newFixture(t)
	dialogs := usecase.NewDialogsUC(f.products, f.feed, logger.Nop{})

	// UpdateProduct не ожидается: любой вызов провалит тест
	price := 20.0
	done := make(chan submitResult[*domain.Product], 1)
	go func() {
		p, err := dialogs.SubmitEdit(context.Background(), domain.UpdateProductReq{ID: "1", Price: &price})
		done <- submitResult[*domain.Product]{p, err}
	}()

	waitAwaiting(t, dialogs, usecase.DialogEdit)
	require.NoError(t, dialogs.Cancel(usecase.DialogEdit, ""))

	res := <-done
	assert.Nil(t, res.value)
	assert.True(t, e.IsCancellation(res.err))
	assert.Empty(t, messages(f.feed))

	st, err := dialogs.State(usecase.DialogEdit)
	require.NoError(t, err)
	assert.Equal(t, confirm.Idle.String(), st.State)
}

func TestDialogs_SecondSubmitIsBusy(t *testing.T) {
	f := newFixture(t)
	dialogs := usecase.NewDialogsUC(f.products, f.feed, logger.Nop{})

	f.api.EXPECT().DeleteProduct(gomock.Any(), gomock.Any(), domain.DeleteProductReq{ID: "5"}).
		Return(&domain.DeleteProductRes{ID: "5"}, nil)

	done := make(chan submitResult[*domain.DeleteProductRes], 1)
	go func() {
		r, err := dialogs.SubmitDelete(context.Background(), domain.DeleteProductReq{ID: "5"})
		done <- submitResult[*domain.DeleteProductRes]{r, err}
	}()
	waitAwaiting(t, dialogs, usecase.DialogDelete)

	_, err := dialogs.SubmitDelete(context.Background(), domain.DeleteProductReq{ID: "6"})
	assert.True(t, errors.Is(err, e.ErrFlowBusy))

	require.NoError(t, dialogs.Confirm(context.Background(), usecase.DialogDelete))
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "5", res.value.ID)
	assert.Equal(t, []string{"Product deleted successfully"}, messages(f.feed))
}

func TestDialogs_CommitFailureNotifies(t *testing.T) {
	f := newFixture(t)
	dialogs := usecase.NewDialogsUC(f.products, f.feed, logger.Nop{})

	f.api.EXPECT().DeleteProduct(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, e.NewHTTPError("DELETE", 500, "boom"))

	done := make(chan error, 1)
	go func() {
		_, err := dialogs.SubmitDelete(context.Background(), domain.DeleteProductReq{ID: "5"})
		done <- err
	}()
	waitAwaiting(t, dialogs, usecase.DialogDelete)

	err := dialogs.Confirm(context.Background(), usecase.DialogDelete)
	assert.Error(t, err)
	assert.Error(t, <-done)
	assert.Equal(t, []string{"Failed to delete product"}, messages(f.feed))
}

func TestDialogs_UnknownDialog(t *testing.T) {
	f := newFixture(t)
	dialogs := usecase.NewDialogsUC(f.products, f.feed, logger.Nop{})

	assert.ErrorIs(t, dialogs.Confirm(context.Background(), "rename"), e.ErrUnknownDialog)
	assert.ErrorIs(t, dialogs.Cancel("rename", ""), e.ErrUnknownDialog)
	_, err := dialogs.State("rename")
	assert.ErrorIs(t, err, e.ErrUnknownDialog)

	assert.ErrorIs(t, dialogs.Confirm(context.Background(), usecase.DialogEdit), e.ErrNothingPending)
}
