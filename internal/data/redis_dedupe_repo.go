package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/feru-app/beacon/internal/core"
)

// RedisDeliveryDedupe records webhook deliveries that were already applied so
// terminal replays can be acknowledged without touching PostgreSQL. Guarded
// result updates remain the source of idempotency; this cache is best-effort.
type RedisDeliveryDedupe struct {
	client redis.UniversalClient
	prefix string
}

var _ core.DeliveryDedupe = (*RedisDeliveryDedupe)(nil)

// NewRedisDeliveryDedupe creates a dedupe cache backed by the given Redis client.
func NewRedisDeliveryDedupe(client redis.UniversalClient, prefix string) *RedisDeliveryDedupe {
	if prefix == "" {
		prefix = "beacon:webhook:"
	}
	return &RedisDeliveryDedupe{client: client, prefix: prefix}
}

// AlreadyDelivered reports whether the delivery key has been recorded.
func (d *RedisDeliveryDedupe) AlreadyDelivered(ctx context.Context, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("dedupe lookup %s: %w", key, err)
	}
	return n > 0, nil
}

// MarkDelivered records the delivery key with the given TTL.
func (d *RedisDeliveryDedupe) MarkDelivered(ctx context.Context, key string, ttl time.Duration) error {
	if err := d.client.Set(ctx, d.prefix+key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("dedupe record %s: %w", key, err)
	}
	return nil
}
