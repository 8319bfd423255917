package sensor

import (
	"context"
	"log/slog"

	"github.com/jannathh/Scentify-Project/pkg/kafka"
)

// KafkaFeed consumes sensor.readings events and fans them out through a Hub.
// Every storefront instance reads the newest offsets without a consumer group.
type KafkaFeed struct {
	*Hub
	consumer *kafka.Consumer
	logger   *slog.Logger
}

// NewKafkaFeed builds a feed on topic. Call Run to start consuming.
func NewKafkaFeed(brokers []string, topic string, logger *slog.Logger) *KafkaFeed {
	if logger == nil {
		logger = slog.Default()
	}
	f := &KafkaFeed{Hub: NewHub(logger), logger: logger}
	f.consumer = kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:  brokers,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	}, f.handle, logger)
	return f
}

// Run consumes until ctx is done, then closes the hub so later subscriptions fail.
func (f *KafkaFeed) Run(ctx context.Context) error {
	defer f.Hub.Close()
	return f.consumer.Start(ctx)
}

func (f *KafkaFeed) handle(ctx context.Context, event *kafka.Event) error {
	return handleReadingsEvent(ctx, f.Hub, event, f.logger)
}

// handleReadingsEvent publishes a readings event. Malformed payloads are
// logged and dropped rather than retried.
func handleReadingsEvent(ctx context.Context, hub *Hub, event *kafka.Event, logger *slog.Logger) error {
	if event.EventType != kafka.EventSensorReadings {
		return nil
	}
	var doc map[string]any
	if err := event.UnmarshalData(&doc); err != nil {
		logger.WarnContext(ctx, "dropping undecodable sensor event",
			slog.String("event_id", event.EventID),
			slog.String("error", err.Error()),
		)
		return nil
	}
	r, err := ReadingsFromMap(doc)
	if err != nil {
		logger.WarnContext(ctx, "dropping malformed sensor event",
			slog.String("event_id", event.EventID),
			slog.String("error", err.Error()),
		)
		return nil
	}
	hub.Publish(r)
	return nil
}
