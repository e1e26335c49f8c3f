package resilient

import (
	"context"
	"time"

	"github.com/Nabil201-ctrl/go-resilient-cache/internal/cacheinfra"
)

// NewMemoryStore constructs the default in-process Store. A nil clock falls
// back to the system clock; tests inject a manual clock to drive expiry.
func NewMemoryStore(clk Clock) Store {
	if clk == nil {
		clk = SystemClock()
	}
	return cacheinfra.NewMemoryStore(clk)
}

// SturdycConfig exposes the sturdyc store adapter options for consumers of
// the resilient package.
type SturdycConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// DefaultSturdycConfig returns a SturdycConfig populated with sensible defaults.
func DefaultSturdycConfig() SturdycConfig {
	return convertSturdycFromInternal(cacheinfra.DefaultSturdycConfig())
}

// Validate checks whether the configuration values are valid.
func (c SturdycConfig) Validate() error {
	return c.toInternal().Validate()
}

// NewSturdycStore constructs a Store backed by a sturdyc client using the
// provided configuration.
func NewSturdycStore(cfg SturdycConfig) (Store, error) {
	return cacheinfra.NewSturdycStore(cfg.toInternal())
}

func (c SturdycConfig) toInternal() cacheinfra.SturdycConfig {
	return cacheinfra.SturdycConfig{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertSturdycFromInternal(cfg cacheinfra.SturdycConfig) SturdycConfig {
	return SturdycConfig{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}

// BytesStore is a byte-oriented key-value backend, the seam for external
// caches such as Redis where values cross a wire as bytes. Implementations
// must be safe for concurrent use.
type BytesStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NewCodecStore wraps a BytesStore with msgpack encoding for values of type
// T, producing a Store usable with the cache-aside loader.
func NewCodecStore[T any](inner BytesStore) Store {
	return cacheinfra.NewCodecStore[T](inner)
}
