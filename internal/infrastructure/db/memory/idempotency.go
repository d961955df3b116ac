package memory

import (
	"context"
	"sync"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
)

// IdempotencyStore is the single-process counterpart of the redis store. Keys
// never expire.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]string // key -> order id, "" while in flight
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{keys: make(map[string]string)}
}

func (s *IdempotencyStore) Claim(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orderID, seen := s.keys[key]
	if !seen {
		s.keys[key] = ""
		return "", true, nil
	}
	if orderID == "" {
		return "", false, domain.ErrIdempotencyInFlight
	}
	return orderID, false, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = orderID
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}
