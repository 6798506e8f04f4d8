package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

// DefaultTopic receives every order lifecycle event.
const DefaultTopic = "laundry.order-events"

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes lifecycle events to one topic keyed by order id, so
// the events of an order land on one partition in commit order.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
	logger  *slog.Logger
}

// NewKafkaPublisher builds a publisher over a kafka-go writer.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	var addrs []string
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	if len(addrs) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if strings.TrimSpace(topic) == "" {
		topic = DefaultTopic
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, logger), nil
}

func newKafkaPublisher(writer messageWriter, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &KafkaPublisher{writer: writer, timeout: 10 * time.Second, logger: logger}
}

// Publish writes all events in one batch.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		envelope, err := NewEnvelope(event)
		if err != nil {
			return err
		}
		value, err := json.Marshal(envelope)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(envelope.OrderID),
			Value: value,
			Headers: []kafka.Header{
				{Key: "event_name", Value: []byte(envelope.Name)},
				{Key: "event_id", Value: []byte(envelope.EventID)},
			},
			Time: envelope.OccurredAt,
		})
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish order events", slog.Int("events", len(msgs)), slog.String("error", err.Error()))
		return err
	}
	p.logger.DebugContext(ctx, "order events published", slog.Int("events", len(msgs)), slog.String("order_id", string(msgs[0].Key)))
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
