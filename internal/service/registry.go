package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultEventTimeout = 5 * time.Second

// Registry holds the live clients keyed by client id.
type Registry struct {
	deps     Deps
	notifier *notifier
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	clients map[string]*Client
	closed  bool
	wg      sync.WaitGroup
}

func NewRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.EventTimeout <= 0 {
		deps.EventTimeout = defaultEventTimeout
	}
	r := &Registry{
		deps:    deps,
		logger:  deps.Logger,
		now:     time.Now,
		clients: make(map[string]*Client),
	}
	if deps.Events != nil {
		r.notifier = &notifier{pub: deps.Events, timeout: deps.EventTimeout, logger: deps.Logger}
	}
	return r
}

// Get returns the client for id, creating it on first use. A new client is
// hydrated in the background so the caller sees IsLoading until its slots
// have been read.
func (r *Registry) Get(ctx context.Context, id string) *Client {
	r.mu.Lock()
	c, ok := r.clients[id]
	if !ok {
		c = newClient(id, r.deps, r.notifier)
		r.clients[id] = c
		activeClients.Set(float64(len(r.clients)))

		if !r.closed {
			r.wg.Add(1)
			go func() {
				defer r.wg.Done()
				c.Hydrate(context.WithoutCancel(ctx))
			}()
		}
	}
	c.touch(r.now())
	r.mu.Unlock()
	return c
}

// Len returns the number of live clients.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Evict disposes clients idle for longer than ttl and returns how many went.
func (r *Registry) Evict(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	var idle []*Client
	for id, c := range r.clients {
		if c.idleSince().Before(cutoff) {
			idle = append(idle, c)
			delete(r.clients, id)
		}
	}
	activeClients.Set(float64(len(r.clients)))
	r.mu.Unlock()

	for _, c := range idle {
		c.dispose()
	}
	return len(idle)
}

// Janitor evicts idle clients every interval until ctx is done.
func (r *Registry) Janitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(ttl); n > 0 {
				r.logger.Info("evicted idle clients",
					slog.Int("count", n),
					slog.Int("remaining", r.Len()),
				)
			}
		}
	}
}

// Close disposes every client and waits for pending hydrations and events.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	clients := r.clients
	r.clients = make(map[string]*Client)
	activeClients.Set(0)
	r.mu.Unlock()

	for _, c := range clients {
		c.dispose()
	}
	r.wg.Wait()
	if r.notifier != nil {
		r.notifier.wait()
	}
}
