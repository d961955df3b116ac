package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

const (
	idempotencyKeyPrefix = "idem:order:"
	idempotencyKeyTTL    = 24 * time.Hour
	pendingMarker        = "pending"
)

// IdempotencyStore records which order an Idempotency-Key produced.
// Key format: idem:order:<user_id>:<client key> -> "pending" | <order_id>
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

func (s *IdempotencyStore) Claim(ctx context.Context, key string) (string, bool, error) {
	k := idempotencyKeyPrefix + key

	ok, err := s.client.SetNX(ctx, k, pendingMarker, idempotencyKeyTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// Released between SETNX and GET; let the client retry.
		return "", false, domain.ErrIdempotencyInFlight
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	if val == pendingMarker {
		return "", false, domain.ErrIdempotencyInFlight
	}
	return val, false, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key, orderID string) error {
	return s.client.Set(ctx, idempotencyKeyPrefix+key, orderID, idempotencyKeyTTL).Err()
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}
