package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/DRSN-tech/product-dashboard/internal/cfg"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

const eventTypeHeader = "event-type"

// ProductChangeMessage — тело сообщения в топике изменений товаров.
type ProductChangeMessage struct {
	EventID    string          `json:"eventId"`
	Type       string          `json:"type"`
	ProductID  int64           `json:"productId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Product    json.RawMessage `json:"product"`
}

type Producer struct {
	writer *kafka.Writer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 200 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Compression:  kafka.Snappy,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

// WriteMessages публикует пачку событий; ключ сообщения: id товара, чтобы сохранить порядок по товару.
func (p *Producer) WriteMessages(ctx context.Context, events []*usecase.OutboxEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		msg, err := toMessage(event)
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
		messages = append(messages, msg)
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	p.logger.Debugf("published %d product events to %s", len(messages), p.cfg.Topic)
	return nil
}

// EnsureTopic создаёт топик через контроллер кластера, если его ещё нет.
func (p *Producer) EnsureTopic(ctx context.Context) error {
	dialer := &kafka.Dialer{Timeout: 5 * time.Second}

	conn, err := dialer.DialContext(ctx, p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	if partitions, err := conn.ReadPartitions(p.cfg.Topic); err == nil && len(partitions) > 0 {
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	ctrl, err := dialer.DialContext(ctx, p.cfg.NetworkMode, net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer ctrl.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = ctrl.SetDeadline(deadline)
	}

	err = ctrl.CreateTopics(kafka.TopicConfig{
		Topic:             p.cfg.Topic,
		NumPartitions:     p.cfg.Partitions,
		ReplicationFactor: p.cfg.ReplicationFactor,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("create topic %s: %w", p.cfg.Topic, err))
	}

	p.logger.Infof("kafka topic %s ready (%d partitions)", p.cfg.Topic, p.cfg.Partitions)
	return nil
}

func (p *Producer) Close(_ context.Context) error {
	return p.writer.Close()
}

func toMessage(event *usecase.OutboxEvent) (kafka.Message, error) {
	value, err := json.Marshal(ProductChangeMessage{
		EventID:    event.EventID,
		Type:       string(event.EventType),
		ProductID:  event.ProductID,
		OccurredAt: event.CreatedAt,
		Product:    json.RawMessage(event.Payload),
	})
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ProductID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: eventTypeHeader, Value: []byte(event.EventType)},
		},
		Time: event.CreatedAt,
	}, nil
}
