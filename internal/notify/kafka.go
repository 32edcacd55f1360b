package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type kafkaNotifier struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewKafkaNotifier writes events keyed by type so each type stays ordered.
// Writes are async: Publish only enqueues, delivery failures are logged by
// the completion callback.
func NewKafkaNotifier(brokers []string, topic string, log *zap.Logger) Notifier {
	log = log.With(zap.String("notifier", "kafka"))

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		MaxAttempts:            3,
		WriteBackoffMax:        500 * time.Millisecond,
		Completion:             logCompletion(log),
	}

	log.Info("Kafka notifier configured",
		zap.Strings("brokers", brokers),
		zap.String("topic", topic),
	)

	return &kafkaNotifier{
		writer: writer,
		log:    log,
	}
}

func logCompletion(log *zap.Logger) func([]kafka.Message, error) {
	return func(messages []kafka.Message, err error) {
		if err != nil {
			log.Warn("Failed to deliver change events", zap.Error(err), zap.Int("messages", len(messages)))
			return
		}
		log.Debug("Change events delivered", zap.Int("messages", len(messages)))
	}
}

func (n *kafkaNotifier) Publish(ctx context.Context, event ChangeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Type),
		Value: body,
		Time:  event.OccurredAt,
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}

	n.log.Debug("Event queued", zap.String("type", event.Type))
	return nil
}

func (n *kafkaNotifier) Close() error {
	return n.writer.Close()
}
