package sensor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jannathh/Scentify-Project/internal/domain"
)

type subscriber struct {
	onSnapshot func(domain.Readings)
	onError    func(error)
}

// Hub fans one upstream feed out to many subscribers.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]*subscriber
	nextID uint64
	closed bool
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{subs: make(map[uint64]*subscriber), logger: logger}
}

// Subscribe registers callbacks until unsubscribe is called or the hub fails.
func (h *Hub) Subscribe(_ context.Context, onSnapshot func(domain.Readings), onError func(error)) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrSourceClosed
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = &subscriber{onSnapshot: onSnapshot, onError: onError}

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}, nil
}

// Publish delivers r to every subscriber.
func (h *Hub) Publish(r domain.Readings) {
	for _, s := range h.snapshot() {
		s.onSnapshot(r)
	}
}

// Fail reports err to every subscriber and drops them all.
func (h *Hub) Fail(err error) {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for id, s := range h.subs {
		subs = append(subs, s)
		delete(h.subs, id)
	}
	h.mu.Unlock()

	h.logger.Warn("sensor feed failed", slog.String("error", err.Error()), slog.Int("subscribers", len(subs)))
	for _, s := range subs {
		if s.onError != nil {
			s.onError(err)
		}
	}
}

// Close fails current subscribers with ErrSourceClosed and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()
	h.Fail(ErrSourceClosed)
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) snapshot() []*subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		out = append(out, s)
	}
	return out
}
