package cacheinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// BytesStore is a byte-oriented key-value backend: the seam for external
// caches such as Redis or memcached, where values must cross a wire as
// bytes. Implementations must be safe for concurrent use.
type BytesStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CodecStore adapts a BytesStore to the store contract by encoding values
// with msgpack. It is generic over the value type so decoding round-trips
// to the caller's concrete type instead of a map of interfaces.
type CodecStore[T any] struct {
	inner BytesStore
}

// NewCodecStore wraps inner with msgpack encoding for values of type T.
func NewCodecStore[T any](inner BytesStore) *CodecStore[T] {
	return &CodecStore[T]{inner: inner}
}

// Get decodes the stored bytes for key into a T. Decode failures surface as
// errors, which the loader treats as a miss.
func (s *CodecStore[T]) Get(ctx context.Context, key string) (any, bool, error) {
	data, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	var v T
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, false, fmt.Errorf("decode cached value for %q: %w", key, err)
	}
	return v, true, nil
}

// Put encodes value and stores the bytes. Non-positive TTLs store nothing.
func (s *CodecStore[T]) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	return s.inner.Put(ctx, key, data, ttl)
}

// Delete removes the entry from the underlying byte store.
func (s *CodecStore[T]) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
