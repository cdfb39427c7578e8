// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/constants"
	"github.com/hallyulatino/api/internal/platform/sec"
	"github.com/hallyulatino/api/internal/users/auth"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, server
}

/*
TestRedisOneTimeTokenRepository_Lifecycle stores a token under its hash and redeems it once.
*/
func TestRedisOneTimeTokenRepository_Lifecycle(t *testing.T) {
	client, server := newTestRedis(t)
	repository := auth.NewResetTokenRepository(client)
	ctx := context.Background()

	require.NoError(t, repository.Set(ctx, "raw-token", "user-1", auth.ResetTokenTTL))

	key := constants.RedisNamespace + constants.RedisPrefixResetToken + sec.HashToken("raw-token")
	assert.True(t, server.Exists(key), "stored under the hashed token")
	assert.Equal(t, auth.ResetTokenTTL, server.TTL(key))

	for _, stored := range server.Keys() {
		assert.False(t, strings.Contains(stored, "raw-token"), "raw token must not appear in keys")
	}

	userID, err := repository.Consume(ctx, "raw-token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.False(t, server.Exists(key))

	_, err = repository.Consume(ctx, "raw-token")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestRedisOneTimeTokenRepository_Expiry(t *testing.T) {
	client, server := newTestRedis(t)
	repository := auth.NewVerificationTokenRepository(client)
	ctx := context.Background()

	require.NoError(t, repository.Set(ctx, "verify-me", "user-2", time.Minute))
	server.FastForward(2 * time.Minute)

	_, err := repository.Consume(ctx, "verify-me")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestRedisOneTimeTokenRepository_Namespaces keeps reset and verification tokens apart.
*/
func TestRedisOneTimeTokenRepository_Namespaces(t *testing.T) {
	client, _ := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, auth.NewResetTokenRepository(client).Set(ctx, "shared", "user-1", time.Hour))

	_, err := auth.NewVerificationTokenRepository(client).Consume(ctx, "shared")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestRedisOneTimeTokenRepository_Outage(t *testing.T) {
	client, server := newTestRedis(t)
	server.Close()

	err := auth.NewResetTokenRepository(client).Set(context.Background(), "token", "user", time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis_reset_token_set_failed")
}

/*
TestRedisOneTimeTokenRepository_ConcurrentConsume hands a token to exactly one of many racing callers.
*/
func TestRedisOneTimeTokenRepository_ConcurrentConsume(t *testing.T) {
	client, _ := newTestRedis(t)
	repository := auth.NewResetTokenRepository(client)
	ctx := context.Background()

	require.NoError(t, repository.Set(ctx, "contested", "user-7", time.Hour))

	var (
		wg       sync.WaitGroup
		winners  atomic.Int32
		rejected atomic.Int32
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID, err := repository.Consume(ctx, "contested")
			switch {
			case err == nil && userID == "user-7":
				winners.Add(1)
			case apperr.HasCode(err, apperr.CodeNotFound):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
	assert.Equal(t, int32(7), rejected.Load())
}
