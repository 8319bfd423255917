// Package redis stores slots in Redis with a sliding TTL.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jannathh/Scentify-Project/internal/repository"
)

const keyPrefix = "storefront:"

// Backend implements repository.Backend using Redis.
type Backend struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Redis-backed slot store. A zero ttl keeps slots forever.
func New(client *redis.Client, ttl time.Duration) *Backend {
	return &Backend{client: client, ttl: ttl}
}

// Get retrieves a slot document from Redis.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrSlotNotFound
		}
		return nil, fmt.Errorf("redis get slot: %w", err)
	}
	return data, nil
}

// Set persists a slot document, refreshing its TTL.
func (b *Backend) Set(ctx context.Context, key string, data []byte) error {
	if err := b.client.Set(ctx, keyPrefix+key, data, b.ttl).Err(); err != nil {
		return fmt.Errorf("redis set slot: %w", err)
	}
	return nil
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
