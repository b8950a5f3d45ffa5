package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/jitter"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	outboxChannel   = "outbox_pending"
	defaultBatch    = 10
	pollInterval    = 30 * time.Second
	staleProcessing = 2 * time.Minute
)

// OutboxWorker переносит события из outbox_events в Kafka.
// Будится через LISTEN/NOTIFY, а раз в pollInterval проверяет очередь сам.
type OutboxWorker struct {
	repo      usecase.OutboxEventRepository
	logger    logger.Logger
	publisher usecase.EventPublisher
	dbConnStr string
	batchSize int

	wake   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOutboxWorker(
	repo usecase.OutboxEventRepository,
	logger logger.Logger,
	publisher usecase.EventPublisher,
	dbConnStr string,
) *OutboxWorker {
	return &OutboxWorker{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
		dbConnStr: dbConnStr,
		batchSize: defaultBatch,
		wake:      make(chan struct{}, 1),
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

// Stop останавливает обе горутины и ждёт их завершения.
func (w *OutboxWorker) Stop(_ context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	return nil
}

func (w *OutboxWorker) run(ctx context.Context) {
	w.logger.Infof("draining pending outbox events on startup")
	w.drain(ctx)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("outbox worker stopped")
			return
		case <-w.wake:
			w.drain(ctx)
		case <-ticker.C:
			if n, err := w.repo.RequeueStale(ctx, staleProcessing); err != nil {
				w.logger.Warnf("requeue stale outbox events: %v", err)
			} else if n > 0 {
				w.logger.Infof("requeued %d stale outbox events", n)
			}
			w.drain(ctx)
		}
	}
}

func (w *OutboxWorker) notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *OutboxWorker) drain(ctx context.Context) {
	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	var conn *pgx.Conn

	connect := func() error {
		c, err := pgx.Connect(ctx, w.dbConnStr)
		if err != nil {
			return e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err = c.Exec(ctx, "LISTEN "+outboxChannel); err != nil {
			c.Close(ctx)
			return e.Wrap("failed to LISTEN", err)
		}

		conn = c
		w.logger.Infof("subscribed to %q channel", outboxChannel)
		return nil
	}

	for attempt := 0; ; attempt++ {
		if conn == nil {
			if err := connect(); err != nil {
				w.logger.Warnf("listen connect failed: %v", err)
				if !jitter.Sleep(ctx.Done(), time.Second, 30*time.Second, attempt) {
					return
				}
				continue
			}
			attempt = 0
		}

		waitCtx, cancel := context.WithTimeout(ctx, pollInterval)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if ctx.Err() != nil {
			conn.Close(context.Background())
			return
		}

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			w.logger.Warnf("listen connection lost: %v, reconnecting", err)
			conn.Close(ctx)
			conn = nil
			continue
		}

		if notif != nil && notif.Channel == outboxChannel {
			w.notify()
		}
	}
}

// processBatch забирает пачку событий и публикует её одним вызовом.
// При ошибке публикации события остаются в processing до RequeueStale.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	if err := w.publisher.WriteMessages(ctx, events); err != nil {
		if isRetryableError(err) {
			return false, e.Wrap("temporary kafka failure, will retry", err)
		}
		return false, e.Wrap("permanent kafka failure", err)
	}

	for _, event := range events {
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	return len(events) == w.batchSize, nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
