package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartPayload struct {
	ClientID  string `json:"client_id"`
	ItemCount int    `json:"item_count"`
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

// --- Event ---

func TestNewEvent_Fields(t *testing.T) {
	data := cartPayload{ClientID: "c-1", ItemCount: 3}
	event, err := NewEvent(EventCartUpdated, "c-1", "cart", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, EventCartUpdated, event.EventType)
	assert.Equal(t, "c-1", event.AggregateID)
	assert.Equal(t, "cart", event.AggregateType)
	assert.Equal(t, Source, event.Source)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)

	var got cartPayload
	require.NoError(t, event.UnmarshalData(&got))
	assert.Equal(t, data, got)
}

func TestNewEvent_InvalidData(t *testing.T) {
	_, err := NewEvent("x", "a", "t", make(chan int))
	require.Error(t, err)
}

func TestEvent_Chaining(t *testing.T) {
	event := &Event{EventType: "x"}
	got := event.WithCorrelationID("corr-1").WithMetadata("k", "v")
	assert.Same(t, event, got)
	assert.Equal(t, "corr-1", event.CorrelationID)
	assert.Equal(t, "v", event.Metadata["k"])
}

func TestUnmarshalEvent_RoundTrip(t *testing.T) {
	original, err := NewEvent(EventOrderPlaced, "ORD-123456", "order", map[string]string{"total": "190.00"})
	require.NoError(t, err)
	original.WithCorrelationID("corr-abc")

	raw, err := original.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, original.EventID, restored.EventID)
	assert.Equal(t, original.CorrelationID, restored.CorrelationID)
	assert.JSONEq(t, string(original.Data), string(restored.Data))
}

func TestUnmarshalEvent_Rejects(t *testing.T) {
	_, err := UnmarshalEvent([]byte(`{broken`))
	require.Error(t, err)

	_, err = UnmarshalEvent([]byte(`{"data":{}}`))
	require.ErrorIs(t, err, ErrMissingEventType)
}

func TestEvent_UnmarshalData_Invalid(t *testing.T) {
	event := &Event{Data: json.RawMessage(`nope`)}
	var target map[string]string
	require.Error(t, event.UnmarshalData(&target))
}

// --- Topics ---

func TestTopic(t *testing.T) {
	assert.Equal(t, "scentify.order.placed", Topic("order", "placed"))
	assert.Equal(t, "scentify.cart.updated", TopicFor(EventCartUpdated))
	assert.Equal(t, "scentify.sensor.readings", TopicFor(EventSensorReadings))
}

// --- Producer ---

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"broker1:9092"})
	assert.Equal(t, []string{"broker1:9092"}, cfg.Brokers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 10*time.Millisecond, cfg.BatchTimeout)
	assert.False(t, cfg.Async)
}

func TestNewProducer_CloseWithoutBroker(t *testing.T) {
	p := NewProducer(DefaultProducerConfig([]string{"localhost:19092"}), nil)
	require.NotNil(t, p)
	assert.NoError(t, p.Close())
}

func TestProducer_Publish_WritesKeyAndHeaders(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, logger: discardLogger()}

	event, err := NewEvent(EventWishlistUpdated, "client-9", "wishlist", []int{1, 2})
	require.NoError(t, err)
	event.WithCorrelationID("corr-9")

	topic := TopicFor(EventWishlistUpdated)
	before := getCounterValue(t, "kafka_producer_messages_published_total", topic, "")
	require.NoError(t, p.Publish(context.Background(), topic, event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, topic, msg.Topic)
	assert.Equal(t, "client-9", string(msg.Key))

	carrier := NewHeaderCarrier(&msg.Headers)
	assert.Equal(t, EventWishlistUpdated, carrier.Get("event_type"))
	assert.Equal(t, Source, carrier.Get("source"))
	assert.Equal(t, "corr-9", carrier.Get("correlation_id"))
	assert.InDelta(t, before+1, getCounterValue(t, "kafka_producer_messages_published_total", topic, ""), 0.001)
}

func TestProducer_Publish_Error(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := &Producer{writer: w, logger: discardLogger()}

	event, err := NewEvent(EventOrderPlaced, "ORD-1", "order", nil)
	require.NoError(t, err)

	topic := "publish-error-topic"
	err = p.Publish(context.Background(), topic, event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), topic)
	assert.InDelta(t, 1, getCounterValue(t, "kafka_producer_publish_errors_total", topic, ""), 0.001)
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(t.Context(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers configured")
}
