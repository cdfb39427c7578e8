// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/constants"
	"github.com/hallyulatino/api/internal/platform/sec"
)

// RedisOneTimeTokenRepository implements [OneTimeTokenRepository] using Redis.
//
// Keys have the form <namespace><prefix><sha256(token)> and expire with the token.
type RedisOneTimeTokenRepository struct {
	client redis.UniversalClient
	prefix string
	name   string
}

// NewResetTokenRepository creates a Redis-backed store for password reset tokens.
func NewResetTokenRepository(client redis.UniversalClient) *RedisOneTimeTokenRepository {
	return &RedisOneTimeTokenRepository{
		client: client,
		prefix: constants.RedisNamespace + constants.RedisPrefixResetToken,
		name:   "reset",
	}
}

// NewVerificationTokenRepository creates a Redis-backed store for email verification tokens.
func NewVerificationTokenRepository(client redis.UniversalClient) *RedisOneTimeTokenRepository {
	return &RedisOneTimeTokenRepository{
		client: client,
		prefix: constants.RedisNamespace + constants.RedisPrefixVerifyToken,
		name:   "verify",
	}
}

func (repository *RedisOneTimeTokenRepository) key(token string) string {
	return repository.prefix + sec.HashToken(token)
}

/*
Set stores a token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - token: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisOneTimeTokenRepository) Set(context context.Context, token string, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, repository.key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_%s_token_set_failed: %w", repository.name, err)
	}
	return nil
}

/*
Consume atomically returns and deletes the userID bound to a token.

Description: Uses GETDEL, so a token redeemed by one request is already gone
for any concurrent request carrying the same value.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: Original UserID
  - error: apperr.NotFound when absent, expired or already used, or connectivity errors
*/
func (repository *RedisOneTimeTokenRepository) Consume(context context.Context, token string) (string, error) {
	userID, err := repository.client.GetDel(context, repository.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Token")
		}
		return "", fmt.Errorf("redis_%s_token_consume_failed: %w", repository.name, err)
	}
	return userID, nil
}
