package resilient

import (
	"context"
	"time"
)

// Store is the cache backend the loader reads through. Implementations must
// be safe for concurrent use. The loader treats the store as best-effort: a
// read error degrades to an origin fetch and a write error is logged and
// dropped, so implementations never need to provide atomicity across a
// Get/Put pair.
type Store interface {
	// Get returns the cached value for key. The second return value is false
	// when the key is absent or expired.
	Get(ctx context.Context, key string) (any, bool, error)

	// Put stores value under key for ttl. A ttl <= 0 means the entry should
	// not be stored at all.
	Put(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes the entry for key, if present.
	Delete(ctx context.Context, key string) error
}

// Origin is the authoritative data source behind the cache. It may be slow
// or fail transiently; the loader wraps every call with its retry and
// circuit breaker machinery and never trusts it to be healthy.
type Origin interface {
	Load(ctx context.Context, key string) (any, error)
}

// OriginFunc adapts a plain function to the Origin interface.
type OriginFunc func(ctx context.Context, key string) (any, error)

// Load implements Origin.
func (f OriginFunc) Load(ctx context.Context, key string) (any, error) {
	return f(ctx, key)
}

// Fetcher is the read-through contract exposed by the cache-aside loader.
// It is exported so that callers can depend on the capability rather than
// the concrete loader type.
type Fetcher interface {
	Fetch(ctx context.Context, key string) (any, error)
	Invalidate(ctx context.Context, key string) error
}
