package cacheinfra

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSturdycConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*SturdycConfig)
		wantField string
	}{
		{"defaults are valid", func(c *SturdycConfig) {}, ""},
		{"zero capacity", func(c *SturdycConfig) { c.Capacity = 0 }, "Capacity"},
		{"negative capacity", func(c *SturdycConfig) { c.Capacity = -1 }, "Capacity"},
		{"zero shards", func(c *SturdycConfig) { c.NumShards = 0 }, "NumShards"},
		{"zero ttl", func(c *SturdycConfig) { c.TTL = 0 }, "TTL"},
		{"eviction percentage too low", func(c *SturdycConfig) { c.EvictionPercentage = 0 }, "EvictionPercentage"},
		{"eviction percentage too high", func(c *SturdycConfig) { c.EvictionPercentage = 101 }, "EvictionPercentage"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultSturdycConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Field != tc.wantField {
				t.Errorf("expected error on field %s, got %s", tc.wantField, cfgErr.Field)
			}
		})
	}
}

func TestNewSturdycStore_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultSturdycConfig()
	cfg.Capacity = 0

	if _, err := NewSturdycStore(cfg); err == nil {
		t.Fatal("expected constructor to reject invalid config")
	}
}

func TestSturdycStore_PutThenGet(t *testing.T) {
	store, err := NewSturdycStore(DefaultSturdycConfig())
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	v, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if v != "v" {
		t.Errorf("expected %q, got %v", "v", v)
	}
}

func TestSturdycStore_NonPositiveTTLStoresNothing(t *testing.T) {
	store, err := NewSturdycStore(DefaultSturdycConfig())
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	ctx := context.Background()

	store.Put(ctx, "k", "v", 0)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("expected nothing to be stored for zero ttl")
	}
}

func TestSturdycStore_Delete(t *testing.T) {
	store, err := NewSturdycStore(DefaultSturdycConfig())
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	ctx := context.Background()

	store.Put(ctx, "k", "v", time.Minute)
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestSturdycStore_DeleteByPrefix(t *testing.T) {
	store, err := NewSturdycStore(DefaultSturdycConfig())
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	ctx := context.Background()

	store.Put(ctx, "user::1", "a", time.Minute)
	store.Put(ctx, "user::2", "b", time.Minute)
	store.Put(ctx, "order::1", "c", time.Minute)

	if err := store.DeleteByPrefix(ctx, "user::"); err != nil {
		t.Fatalf("delete by prefix failed: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "user::1"); ok {
		t.Error("expected user::1 to be invalidated")
	}
	if _, ok, _ := store.Get(ctx, "user::2"); ok {
		t.Error("expected user::2 to be invalidated")
	}
	if _, ok, _ := store.Get(ctx, "order::1"); !ok {
		t.Error("expected order::1 to survive")
	}
}
