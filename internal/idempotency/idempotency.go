package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store remembers which order id a client-supplied idempotency key produced,
// so a network retry of POST /api/orders returns the original order instead
// of creating a second one. Keys expire after the TTL; clients that send no
// key keep the legacy duplicate-on-retry behavior.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(restaurantID, idempotencyKey string) string {
	return "order:idem:" + restaurantID + ":" + idempotencyKey
}

// Lookup returns the order id previously recorded for the key, if any.
func (s *Store) Lookup(ctx context.Context, restaurantID, idempotencyKey string) (string, bool, error) {
	orderID, err := s.client.Get(ctx, key(restaurantID, idempotencyKey)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up idempotency key: %w", err)
	}

	return orderID, true, nil
}

// Remember records the order id for the key. The first writer wins; a
// concurrent duplicate keeps the originally stored id.
func (s *Store) Remember(ctx context.Context, restaurantID, idempotencyKey, orderID string) error {
	if err := s.client.SetNX(ctx, key(restaurantID, idempotencyKey), orderID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}

	return nil
}
