package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryIdempotencyStore keeps payment idempotency keys in process memory.
// Suitable for single-instance deployments and tests; use the Redis store
// when running more than one instance.
type InMemoryIdempotencyStore struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type inMemoryEntry struct {
	paymentID uuid.UUID
	expiresAt time.Time
}

// NewInMemoryIdempotencyStore creates an in-memory store with the given TTL
func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &InMemoryIdempotencyStore{
		entries: make(map[string]inMemoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func idempotencyKey(tenantID uuid.UUID, key string) string {
	return tenantID.String() + ":" + key
}

// Get returns the payment ID previously stored under the key
func (s *InMemoryIdempotencyStore) Get(ctx context.Context, tenantID uuid.UUID, key string) (uuid.UUID, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[idempotencyKey(tenantID, key)]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.expiresAt) {
		return uuid.Nil, false, nil
	}
	return entry.paymentID, true, nil
}

// Put stores the payment ID under the key
func (s *InMemoryIdempotencyStore) Put(ctx context.Context, tenantID uuid.UUID, key string, paymentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[idempotencyKey(tenantID, key)] = inMemoryEntry{
		paymentID: paymentID,
		expiresAt: s.now().Add(s.ttl),
	}

	// drop expired entries opportunistically to bound memory
	for k, e := range s.entries {
		if s.now().After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	return nil
}
