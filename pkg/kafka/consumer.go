package kafka

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// maxHandlerRetries bounds how often one message is handed to the handler before it is skipped.
const maxHandlerRetries = 3

// Handler processes one decoded event.
type Handler func(ctx context.Context, event *Event) error

// ConsumerConfig holds Kafka consumer configuration. An empty GroupID reads
// partition 0 from the newest offset without committing.
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads Event envelopes from one topic and hands them to a Handler.
type Consumer struct {
	reader    messageReader
	topic     string
	group     string
	logger    *slog.Logger
	handler   Handler
	backoff   time.Duration
	closeOnce sync.Once
}

func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	rc := kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	}
	if cfg.GroupID == "" {
		rc.StartOffset = kafka.LastOffset
	}

	return newConsumer(kafka.NewReader(rc), cfg.Topic, cfg.GroupID, handler, logger)
}

func newConsumer(r messageReader, topic, group string, handler Handler, logger *slog.Logger) *Consumer {
	return &Consumer{
		reader:  r,
		topic:   topic,
		group:   group,
		logger:  logger,
		handler: handler,
		backoff: 100 * time.Millisecond,
	}
}

// Start consumes until ctx is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started", slog.String("topic", c.topic), slog.String("group", c.group))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", slog.String("topic", c.topic))
				return c.Close()
			}
			c.logger.Error("failed to fetch message", slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
				return c.Close()
			case <-time.After(c.backoff):
			}
			continue
		}
		ConsumerMessagesReceived.WithLabelValues(c.topic, c.group).Inc()

		if !c.process(ctx, msg) && ctx.Err() != nil {
			return c.Close()
		}
		c.commit(ctx, msg)
	}
}

// process reports false only when ctx ended mid-retry.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) bool {
	event, err := UnmarshalEvent(msg.Value)
	if err != nil {
		ConsumerMessagesFailed.WithLabelValues(c.topic, c.group).Inc()
		c.logger.Error("failed to unmarshal event",
			slog.String("error", err.Error()),
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
		)
		return true
	}

	msgCtx := extractTrace(ctx, &msg)
	start := time.Now()
	defer func() {
		ConsumerProcessingDuration.WithLabelValues(c.topic, c.group).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 1; attempt <= maxHandlerRetries; attempt++ {
		if lastErr = c.handler(msgCtx, event); lastErr == nil {
			ConsumerMessagesProcessed.WithLabelValues(c.topic, c.group).Inc()
			return true
		}
		c.logger.Warn("handler failed",
			slog.String("event_type", event.EventType),
			slog.String("error", lastErr.Error()),
			slog.Int("attempt", attempt),
		)
		if attempt < maxHandlerRetries {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}
	}

	ConsumerMessagesFailed.WithLabelValues(c.topic, c.group).Inc()
	c.logger.Error("skipping message after retries",
		slog.String("event_type", event.EventType),
		slog.String("error", lastErr.Error()),
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
	)
	return true
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if c.group == "" {
		return
	}
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("failed to commit message", slog.String("error", err.Error()))
	}
}

// Close closes the reader. It is safe to call multiple times.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}
