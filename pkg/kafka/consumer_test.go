package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader serves queued messages, then blocks until ctx ends.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
	closed    int
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if len(f.queue) > 0 {
		msg := f.queue[0]
		f.queue = f.queue[1:]
		f.mu.Unlock()
		return msg, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeReader) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func readingsMessage(t *testing.T, offset int64) kafka.Message {
	t.Helper()
	event, err := NewEvent(EventSensorReadings, "sensor-1", "sensor", map[string]float64{"mq3": 12})
	require.NoError(t, err)
	raw, err := event.Marshal()
	require.NoError(t, err)
	return kafka.Message{Topic: "readings", Offset: offset, Value: raw}
}

func runConsumer(t *testing.T, c *Consumer, until func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	require.Eventually(t, until, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestConsumer_HandlesAndCommits(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{readingsMessage(t, 1), readingsMessage(t, 2)}}

	var mu sync.Mutex
	var seen []string
	c := newConsumer(r, "readings", "grp", func(_ context.Context, e *Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.EventType)
		return nil
	}, discardLogger())

	runConsumer(t, c, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.committed) == 2
	})

	assert.Equal(t, []string{EventSensorReadings, EventSensorReadings}, seen)
	assert.Equal(t, 1, r.closed)
}

func TestConsumer_NoGroupSkipsCommit(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{readingsMessage(t, 1)}}
	handled := make(chan struct{}, 1)
	c := newConsumer(r, "readings", "", func(context.Context, *Event) error {
		handled <- struct{}{}
		return nil
	}, discardLogger())

	runConsumer(t, c, func() bool { return len(handled) == 1 })
	assert.Empty(t, r.committed)
}

func TestConsumer_SkipsUndecodableMessage(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{{Value: []byte("garbage")}, readingsMessage(t, 2)}}
	calls := 0
	c := newConsumer(r, "readings", "grp", func(context.Context, *Event) error {
		calls++
		return nil
	}, discardLogger())

	runConsumer(t, c, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.committed) == 2
	})
	assert.Equal(t, 1, calls)
}

func TestConsumer_RetriesThenSkips(t *testing.T) {
	r := &fakeReader{queue: []kafka.Message{readingsMessage(t, 7)}}
	attempts := 0
	c := newConsumer(r, "retry-topic", "retry-group", func(context.Context, *Event) error {
		attempts++
		return errors.New("downstream busy")
	}, discardLogger())
	c.backoff = time.Millisecond

	runConsumer(t, c, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.committed) == 1
	})
	assert.Equal(t, maxHandlerRetries, attempts)
	assert.InDelta(t, 1, getCounterValue(t, "kafka_consumer_messages_failed_total", "retry-topic", "retry-group"), 0.001)
}

func TestConsumer_CloseIsIdempotent(t *testing.T) {
	r := &fakeReader{}
	c := newConsumer(r, "t", "g", nil, discardLogger())
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, 1, r.closed)
}
