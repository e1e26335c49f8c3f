package cacheinfra

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// SturdycStore adapts a sturdyc client to the store contract. sturdyc owns
// sharding, capacity-based eviction and entry expiry; the per-call TTL from
// the loader only gates whether a value is stored at all, while the entry
// lifetime is governed by the client-wide TTL from SturdycConfig.
type SturdycStore struct {
	client *sturdyc.Client[any]
}

// NewSturdycStore creates a new sturdyc-backed store adapter. It validates
// the configuration and initializes a sturdyc client with the provided
// settings.
//
// Version compatibility note: this adapter assumes the sturdyc v1.x API.
func NewSturdycStore(cfg SturdycConfig) (*SturdycStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		options...,
	)

	return &SturdycStore{client: client}, nil
}

// Get returns the cached value for key, if sturdyc still holds it.
func (s *SturdycStore) Get(ctx context.Context, key string) (any, bool, error) {
	v, ok := s.client.Get(key)
	return v, ok, nil
}

// Put stores value under key. Non-positive TTLs store nothing.
func (s *SturdycStore) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.client.Set(key, value)
	return nil
}

// Delete removes a single entry, ensuring subsequent reads miss.
func (s *SturdycStore) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// DeleteByPrefix removes all entries whose keys start with prefix. Useful
// for invalidating a whole namespace produced by a key serializer.
func (s *SturdycStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	return nil
}
