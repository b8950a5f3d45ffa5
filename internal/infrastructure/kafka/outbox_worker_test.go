package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/internal/usecase/mocks"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func events(n int) []*usecase.OutboxEvent {
	out := make([]*usecase.OutboxEvent, n)
	for i := range out {
		ev := usecase.NewOutboxEvent("ev", usecase.ProductUpdated, int64(i+1), []byte(`{"id":"1"}`))
		ev.ID = int64(i + 1)
		out[i] = ev
	}
	return out
}

func TestOutboxWorker_ProcessBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOutboxEventRepository(ctrl)
	pub := mocks.NewMockEventPublisher(ctrl)
	w := NewOutboxWorker(repo, logger.Nop{}, pub, "")

	batch := events(3)
	repo.EXPECT().GetAndMarkAsProcessing(gomock.Any(), defaultBatch).Return(batch, nil)
	pub.EXPECT().WriteMessages(gomock.Any(), batch).Return(nil)
	for _, ev := range batch {
		repo.EXPECT().MarkAsProcessed(gomock.Any(), ev.ID).Return(nil)
	}

	more, err := w.processBatch(context.Background())
	require.NoError(t, err)
	assert.False(t, more)
}

func TestOutboxWorker_DrainUntilShortBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOutboxEventRepository(ctrl)
	pub := mocks.NewMockEventPublisher(ctrl)
	w := NewOutboxWorker(repo, logger.Nop{}, pub, "")

	gomock.InOrder(
		repo.EXPECT().GetAndMarkAsProcessing(gomock.Any(), defaultBatch).Return(events(defaultBatch), nil),
		repo.EXPECT().GetAndMarkAsProcessing(gomock.Any(), defaultBatch).Return(nil, nil),
	)
	pub.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().MarkAsProcessed(gomock.Any(), gomock.Any()).Return(nil).Times(defaultBatch)

	w.drain(context.Background())
}

func TestOutboxWorker_PublishFailureLeavesEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOutboxEventRepository(ctrl)
	pub := mocks.NewMockEventPublisher(ctrl)
	w := NewOutboxWorker(repo, logger.Nop{}, pub, "")

	repo.EXPECT().GetAndMarkAsProcessing(gomock.Any(), gomock.Any()).Return(events(2), nil)
	pub.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("dial tcp: connection refused"))
	// MarkAsProcessed не вызывается

	_, err := w.processBatch(context.Background())
	assert.ErrorContains(t, err, "temporary kafka failure")
}

func TestToMessage(t *testing.T) {
	ev := usecase.NewOutboxEvent("e-1", usecase.ProductDeleted, 42, []byte(`{"id":"42"}`))

	msg, err := toMessage(ev)
	require.NoError(t, err)
	assert.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "product.deleted", string(msg.Headers[0].Value))

	var body ProductChangeMessage
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "e-1", body.EventID)
	assert.EqualValues(t, 42, body.ProductID)
	assert.JSONEq(t, `{"id":"42"}`, string(body.Product))
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(errors.New("read: connection reset by peer")))
	assert.False(t, isRetryableError(errors.New("message too large")))
	assert.False(t, isRetryableError(nil))
}
