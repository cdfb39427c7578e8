// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache provides a namespaced JSON cache in front of slower stores.

Architecture:

  - Store: the raw byte-level backend. [RedisStore] is the production implementation.
  - Cache: JSON encoding, key namespacing, and cache-aside loading.
  - Stampede guard: concurrent misses on one key share a single load via singleflight.

Cache failures are never fatal to a read: [GetOrLoad] logs them and falls back
to the loader.
*/
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"golang.org/x/sync/singleflight"
)

// Store is the byte-level backend behind a [Cache].
type Store interface {
	// Get returns the stored bytes and whether the key existed.
	Get(context context.Context, key string) ([]byte, bool, error)
	Set(context context.Context, key string, value []byte, ttl time.Duration) error
	Delete(context context.Context, keys ...string) error
}

// Cache stores JSON values under a common key prefix.
//
// It is safe for concurrent use.
type Cache struct {
	store  Store
	prefix string
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// New creates a Cache. ttl is the default lifetime used by [Cache.Set] and [GetOrLoad].
func New(store Store, prefix string, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: store, prefix: prefix, ttl: ttl, logger: logger}
}

// Key returns the namespaced form of key.
func (cache *Cache) Key(key string) string {
	return cache.prefix + key
}

// Get decodes the value under key into dest and reports whether it was found.
func (cache *Cache) Get(context context.Context, key string, dest any) (bool, error) {
	raw, found, err := cache.store.Get(context, cache.Key(key))
	if err != nil || !found {
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache: decode %q: %w", key, err)
	}

	return true, nil
}

// Set encodes value as JSON and stores it with the default TTL.
func (cache *Cache) Set(context context.Context, key string, value any) error {
	return cache.SetWithTTL(context, key, value, cache.ttl)
}

// SetWithTTL encodes value as JSON and stores it for ttl.
func (cache *Cache) SetWithTTL(context context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}
	return cache.store.Set(context, cache.Key(key), raw, ttl)
}

// Delete removes keys. Missing keys are not an error.
func (cache *Cache) Delete(context context.Context, keys ...string) error {
	namespaced := make([]string, len(keys))
	for i, key := range keys {
		namespaced[i] = cache.Key(key)
	}
	return cache.store.Delete(context, namespaced...)
}

/*
GetOrLoad implements cache-aside reads.

Description: Returns the cached value when present. On a miss, exactly one
caller per key runs load; the others wait for its result. A loaded nil pointer
or a load error is returned as-is and never cached.

Parameters:
  - context: context.Context
  - cache: *Cache
  - key: string (un-prefixed)
  - load: func(context.Context) (T, error)

Returns:
  - T: cached or freshly loaded value
  - error: the loader's error
*/
func GetOrLoad[T any](context context.Context, cache *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	found, err := cache.Get(context, key, &cached)
	if err != nil {
		cache.logger.WarnContext(context, "cache_read_failed", slog.String("key", key), slog.Any("error", err))
	}
	if found {
		return cached, nil
	}

	value, err, _ := cache.group.Do(key, func() (any, error) {
		loaded, err := load(context)
		if err != nil {
			return loaded, err
		}

		if !isNil(loaded) {
			if err := cache.Set(context, key, loaded); err != nil {
				cache.logger.WarnContext(context, "cache_write_failed", slog.String("key", key), slog.Any("error", err))
			}
		}

		return loaded, nil
	})

	if err != nil {
		var zero T
		return zero, err
	}

	typed, _ := value.(T)
	return typed, nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	reflected := reflect.ValueOf(value)
	switch reflected.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return reflected.IsNil()
	}
	return false
}
