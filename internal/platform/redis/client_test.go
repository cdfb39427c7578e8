// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstore "github.com/hallyulatino/api/internal/platform/redis"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestNewClient_ConnectsAndReportsReady checks the startup ping and the readiness checker.
*/
func TestNewClient_ConnectsAndReportsReady(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := redisstore.NewClient(context.Background(), "redis://"+server.Addr()+"/0", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	checker := redisstore.Checker{Client: client}
	assert.Equal(t, "redis", checker.Name())
	assert.NoError(t, checker.Check(context.Background()))

	server.Close()
	assert.Error(t, checker.Check(context.Background()))
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := redisstore.NewClient(context.Background(), "http://not-redis", discardLogger())
	assert.ErrorContains(t, err, "redis: invalid URL")
}
