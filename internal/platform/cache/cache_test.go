// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallyulatino/api/internal/platform/cache"
)

// memoryStore is a map-backed cache.Store.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	failGet bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string][]byte)}
}

func (store *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.failGet {
		return nil, false, errors.New("connection refused")
	}
	raw, ok := store.entries[key]
	return raw, ok, nil
}

func (store *memoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.entries[key] = value
	return nil
}

func (store *memoryStore) Delete(_ context.Context, keys ...string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, key := range keys {
		delete(store.entries, key)
	}
	return nil
}

type profile struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

/*
TestCache_SetGetDelete verifies the JSON round trip and the key prefix.
*/
func TestCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	c := cache.New(store, "test:", time.Minute, nil)

	require.NoError(t, c.Set(ctx, "profile:1", profile{ID: "1", Nickname: "Maria"}))
	assert.Contains(t, store.entries, "test:profile:1")

	var got profile
	found, err := c.Get(ctx, "profile:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Maria", got.Nickname)

	require.NoError(t, c.Delete(ctx, "profile:1"))
	found, err = c.Get(ctx, "profile:1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

/*
TestGetOrLoad_CachesAfterFirstLoad verifies the loader runs once per miss.
*/
func TestGetOrLoad_CachesAfterFirstLoad(t *testing.T) {
	ctx := context.Background()
	c := cache.New(newMemoryStore(), "test:", time.Minute, nil)

	var calls int32
	load := func(context.Context) (*profile, error) {
		atomic.AddInt32(&calls, 1)
		return &profile{ID: "1", Nickname: "Maria"}, nil
	}

	first, err := cache.GetOrLoad(ctx, c, "profile:1", load)
	require.NoError(t, err)
	second, err := cache.GetOrLoad(ctx, c, "profile:1", load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

/*
TestGetOrLoad_NilNotCached ensures absent values are re-queried.
*/
func TestGetOrLoad_NilNotCached(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	c := cache.New(store, "test:", time.Minute, nil)

	got, err := cache.GetOrLoad(ctx, c, "profile:missing", func(context.Context) (*profile, error) {
		return nil, nil
	})

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, store.entries)
}

/*
TestGetOrLoad_ErrorPropagates ensures loader errors are returned, not cached.
*/
func TestGetOrLoad_ErrorPropagates(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	c := cache.New(store, "test:", time.Minute, nil)
	boom := errors.New("db down")

	_, err := cache.GetOrLoad(ctx, c, "profile:1", func(context.Context) (*profile, error) {
		return nil, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.entries)
}

/*
TestGetOrLoad_StoreFailureFallsBack verifies a broken backend degrades to the loader.
*/
func TestGetOrLoad_StoreFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.failGet = true
	c := cache.New(store, "test:", time.Minute, nil)

	got, err := cache.GetOrLoad(ctx, c, "profile:1", func(context.Context) (*profile, error) {
		return &profile{ID: "1"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
}

/*
TestGetOrLoad_CollapsesConcurrentMisses verifies singleflight deduplication.
*/
func TestGetOrLoad_CollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	c := cache.New(newMemoryStore(), "test:", time.Minute, nil)

	var calls int32
	release := make(chan struct{})
	load := func(context.Context) (*profile, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &profile{ID: "1"}, nil
	}

	const workers = 8
	var started, done sync.WaitGroup
	started.Add(workers)
	done.Add(workers)

	for range workers {
		go func() {
			defer done.Done()
			started.Done()
			_, err := cache.GetOrLoad(ctx, c, "profile:1", load)
			assert.NoError(t, err)
		}()
	}

	started.Wait()
	time.Sleep(50 * time.Millisecond)
	close(release)
	done.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}
