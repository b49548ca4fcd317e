package shared

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrDuplicateOrder indicates the order identity was already processed.
var ErrDuplicateOrder = errors.New("order already processed")

// OrderDedup tracks processed order identities in Redis with bounded
// retention, so redelivered events under at-least-once transport do not
// double-apply stock adjustments.
type OrderDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOrderDedup constructs the store. TTL bounds how long identities are kept.
func NewOrderDedup(client *redis.Client, ttl time.Duration) *OrderDedup {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &OrderDedup{client: client, ttl: ttl}
}

func dedupKey(orderID int64) string {
	return fmt.Sprintf("inventory:orders:%d", orderID)
}

// CheckAndInsert claims the order identity. The first caller wins; later
// callers get ErrDuplicateOrder until the retention window expires.
// Without a Redis client the check is a no-op.
func (s *OrderDedup) CheckAndInsert(ctx context.Context, orderID int64) error {
	if s == nil || s.client == nil {
		return nil
	}
	ok, err := s.client.SetNX(ctx, dedupKey(orderID), time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicateOrder
	}
	return nil
}

// Release frees the order identity, typically after failed processing so a
// redelivery can retry.
func (s *OrderDedup) Release(ctx context.Context, orderID int64) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, dedupKey(orderID)).Err()
}
