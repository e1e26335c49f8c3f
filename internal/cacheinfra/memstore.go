package cacheinfra

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// memEntry pairs a cached value with its absolute expiry. A zero ExpiresAt
// never happens here because Put rejects non-positive TTLs.
type memEntry struct {
	value     any
	expiresAt time.Time
}

// MemoryStore is an in-process store backed by a concurrent map. Expired
// entries are removed lazily on read; there is no background sweeper, so
// memory for dead entries is reclaimed only when the key is touched again
// or deleted.
type MemoryStore struct {
	entries *xsync.MapOf[string, memEntry]
	clock   Clock
}

// NewMemoryStore constructs an empty MemoryStore reading time from clk.
func NewMemoryStore(clk Clock) *MemoryStore {
	return &MemoryStore{
		entries: xsync.NewMapOf[string, memEntry](),
		clock:   clk,
	}
}

// Get returns the live value for key. Expired entries are deleted and
// reported as absent.
func (s *MemoryStore) Get(ctx context.Context, key string) (any, bool, error) {
	ent, ok := s.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	if !s.clock.Now().Before(ent.expiresAt) {
		s.entries.Delete(key)
		return nil, false, nil
	}
	return ent.value, true, nil
}

// Put stores value under key until now+ttl. Non-positive TTLs store nothing.
func (s *MemoryStore) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.entries.Store(key, memEntry{
		value:     value,
		expiresAt: s.clock.Now().Add(ttl),
	})
	return nil
}

// Delete removes the entry for key, if present.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// Len reports the number of stored entries, including any that have expired
// but not yet been touched.
func (s *MemoryStore) Len() int {
	return s.entries.Size()
}
