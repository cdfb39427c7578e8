// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package redis opens the go-redis client shared by the single-use token
// stores and the profile cache.
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hallyulatino/api/internal/platform/constants"
)

// Pool sizing and per-command deadlines.
const (
	poolSize        = 10
	minIdleConns    = 2
	maxIdleConns    = 5
	connMaxIdleTime = 5 * time.Minute

	dialTimeout = 3 * time.Second
	ioTimeout   = 2 * time.Second
	pingTimeout = 2 * time.Second
)

/*
NewClient parses redisURL, applies the pool settings and pings once.

Parameters:
  - context: stdctx.Context (bounds the startup ping)
  - redisURL: redis:// or rediss:// URL, database index as the path
  - logger: *slog.Logger

Returns:
  - *redis.Client: connected client, owned by the caller
  - error: URL parse or connectivity failures
*/
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	configure(options)

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// configure overrides the URL defaults with the service's pool and deadline settings.
func configure(options *redis.Options) {
	options.ClientName = constants.AppName

	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.MaxIdleConns = maxIdleConns
	options.ConnMaxIdleTime = connMaxIdleTime

	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout
	options.ContextTimeoutEnabled = true
}

// Ping issues PING bounded by pingTimeout.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingContext, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingContext).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}

// Checker reports Redis reachability to the readiness probe.
type Checker struct {
	Client redis.UniversalClient
}

func (checker Checker) Name() string { return "redis" }

func (checker Checker) Check(context stdctx.Context) error { return Ping(context, checker.Client) }
