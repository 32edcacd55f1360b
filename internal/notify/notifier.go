package notify

import (
	"context"
	"time"

	"ticket-booking/internal/data/entity"
	"ticket-booking/pkg/utils"

	"go.uber.org/zap"
)

const (
	EventTicketsUpdated  = "ticketsUpdated"
	EventBookingsUpdated = "bookingsUpdated"
)

// ChangeEvent tells subscribers to refetch tickets or bookings.
type ChangeEvent struct {
	Type       string        `json:"type"`
	Tiers      []entity.Tier `json:"tiers,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}

type Notifier interface {
	Publish(ctx context.Context, event ChangeEvent) error
	Close() error
}

// New picks the driver named in cfg.
func New(cfg utils.NotifyConfig, log *zap.Logger) (Notifier, error) {
	switch cfg.Driver {
	case utils.NotifyKafka:
		return NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic, log), nil
	case utils.NotifyRabbitMQ:
		return NewRabbitMQNotifier(cfg.RabbitMQURL, cfg.RabbitMQExchange, log)
	default:
		return NewLogNotifier(log), nil
	}
}

type logNotifier struct {
	log *zap.Logger
}

// NewLogNotifier only writes events to the debug log.
func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log.With(zap.String("notifier", "log"))}
}

func (n *logNotifier) Publish(_ context.Context, event ChangeEvent) error {
	n.log.Debug("Change event",
		zap.String("type", event.Type),
		zap.Any("tiers", event.Tiers),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

func (n *logNotifier) Close() error { return nil }
