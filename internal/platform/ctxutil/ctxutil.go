// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil reads and writes the per-request values the HTTP layer stores in [context.Context].
//
// Getters never fail: a missing value yields the zero value, except [GetLogger]
// which falls back to [slog.Default].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/hallyulatino/api/internal/platform/ctxkey"
	"github.com/hallyulatino/api/internal/platform/sec"
	"github.com/hallyulatino/api/internal/users/identity"
)

func lookup[T any](ctx context.Context, key any) T {
	value, _ := ctx.Value(key).(T)
	return value
}

// # Request Tracing

// WithRequestID attaches the correlation id set by the RequestID middleware.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.RequestID, id)
}

// GetRequestID returns the correlation id, or "".
func GetRequestID(ctx context.Context) string {
	return lookup[string](ctx, ctxkey.RequestID)
}

// # Structured Logging

// WithLogger attaches a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.Logger, logger)
}

// GetLogger returns the request-scoped logger, or the process default.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger := lookup[*slog.Logger](ctx, ctxkey.Logger); logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity & Access

// WithAccount attaches the account resolved from the bearer token.
func WithAccount(ctx context.Context, account *identity.User) context.Context {
	return context.WithValue(ctx, ctxkey.Account, account)
}

// GetAccount returns the resolved account, or nil for anonymous requests.
func GetAccount(ctx context.Context) *identity.User {
	return lookup[*identity.User](ctx, ctxkey.Account)
}

// WithClaims attaches the verified access token claims.
func WithClaims(ctx context.Context, claims *sec.Claims) context.Context {
	return context.WithValue(ctx, ctxkey.Claims, claims)
}

// GetClaims returns the verified claims, or nil.
func GetClaims(ctx context.Context) *sec.Claims {
	return lookup[*sec.Claims](ctx, ctxkey.Claims)
}
