package pgdb

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// канал, на который подписан outbox worker
const outboxChannel = "outbox_pending"

const outboxColumns = `id, event_id::text, event_type, product_id, payload, status, created_at, processed_at`

// OutboxEventRepo хранит события об изменениях товаров до их отправки в Kafka.
type OutboxEventRepo struct {
	pool *pgxpool.Pool
	conv converter.OutboxEventConverter
}

func NewOutboxEventRepo(pool *pgxpool.Pool, conv converter.OutboxEventConverter) *OutboxEventRepo {
	return &OutboxEventRepo{
		pool: pool,
		conv: conv,
	}
}

// Create пишет событие в транзакции изменения товара и будит worker через NOTIFY.
// NOTIFY доставляется только после коммита.
func (o *OutboxEventRepo) Create(ctx context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model := o.conv.ToModel(event)
	query := `
		INSERT INTO outbox_events (event_id, event_type, product_id, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = tx.QueryRow(ctx, query,
		model.EventID, model.EventType, model.ProductID, model.Payload, model.Status, model.CreatedAt,
	).Scan(&model.ID, &model.CreatedAt)
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.NewValidationError("event_id", "already exists: "+event.EventID, e.ErrStatusBadRequest))
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := tx.Exec(ctx, "SELECT pg_notify($1, '')", outboxChannel); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(model), nil
}

// GetAndMarkAsProcessing забирает до limit ожидающих событий в порядке создания.
// SKIP LOCKED не даёт двум worker'ам взять одно событие.
func (o *OutboxEventRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	tx, err := o.pool.Begin(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	// после Commit откат ничего не делает
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE outbox_events
		SET status = $1, processing_started_at = NOW()
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE status = $2
			ORDER BY created_at, id
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + outboxColumns

	rows, err := tx.Query(ctx, query, string(usecase.Processing), string(usecase.Pending), limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, scanOutboxEvent)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// RETURNING не сохраняет порядок подзапроса
	sortByCreated(models)
	return o.conv.ToArrEntity(models), nil
}

// MarkAsProcessed закрывает событие. Событие, которое уже закрыл другой worker, пропускается.
func (o *OutboxEventRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	query := `
		UPDATE outbox_events
		SET status = $1, processed_at = NOW()
		WHERE id = $2 AND status = $3
	`

	if _, err := o.pool.Exec(ctx, query, string(usecase.Processed), id, string(usecase.Processing)); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// RequeueStale возвращает в очередь события, зависшие в processing дольше olderThan.
func (o *OutboxEventRepo) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		UPDATE outbox_events
		SET status = $1, processing_started_at = NULL
		WHERE status = $2 AND processing_started_at < NOW() - make_interval(secs => $3)
	`

	result, err := o.pool.Exec(ctx, query, string(usecase.Pending), string(usecase.Processing), olderThan.Seconds())
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return result.RowsAffected(), nil
}

func scanOutboxEvent(row pgx.CollectableRow) (*converter.OutboxEventModel, error) {
	var m converter.OutboxEventModel
	err := row.Scan(&m.ID, &m.EventID, &m.EventType, &m.ProductID, &m.Payload, &m.Status, &m.CreatedAt, &m.ProcessedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func sortByCreated(models []*converter.OutboxEventModel) {
	slices.SortFunc(models, func(a, b *converter.OutboxEventModel) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
