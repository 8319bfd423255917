package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jannathh/Scentify-Project/pkg/breaker"
)

// breakerBackend trips after repeated backend failures so that stores degrade
// to in-memory operation instead of waiting out every timeout.
type breakerBackend struct {
	next Backend
	cb   *breaker.Breaker[[]byte]
}

// WithBreaker wraps next in a circuit breaker. ErrSlotNotFound counts as success.
func WithBreaker(next Backend, cfg breaker.Config, logger *slog.Logger) Backend {
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrSlotNotFound)
	}
	return &breakerBackend{next: next, cb: breaker.New[[]byte](cfg, logger)}
}

func (b *breakerBackend) Get(ctx context.Context, key string) ([]byte, error) {
	return b.cb.Execute(ctx, func(ctx context.Context) ([]byte, error) {
		return b.next.Get(ctx, key)
	})
}

func (b *breakerBackend) Set(ctx context.Context, key string, data []byte) error {
	_, err := b.cb.Execute(ctx, func(ctx context.Context) ([]byte, error) {
		return nil, b.next.Set(ctx, key, data)
	})
	return err
}

// Ping bypasses the breaker so readiness reflects the backend itself.
func (b *breakerBackend) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}
