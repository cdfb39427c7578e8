// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants names the fixed values shared across packages: server
// deadlines, header names, JSON keys and Redis key prefixes.
package constants

import "time"

// # Metadata

const (
	AppName    = "hallyulatino-api"
	AppVersion = "0.1.0-dev"

	// MetricsNamespace prefixes every Prometheus metric name.
	MetricsNamespace = "hallyulatino"
)

// # Deadlines

const (
	// http.Server deadlines.
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout caps a handler's context; Postgres statement_timeout matches it.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is the drain window for in-flight requests on SIGTERM.
	ShutdownTimeout = 30 * time.Second

	// ReadinessTimeout bounds the dependency checks behind /ready.
	ReadinessTimeout = 2 * time.Second
)

// # Authentication

const (
	// BearerScheme is the Authorization header scheme for access tokens.
	BearerScheme = "Bearer"

	// TokenTypeBearer is the token_type reported to clients.
	TokenTypeBearer = "bearer"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAuthenticate  = "WWW-Authenticate"
	ContentTypeJSON     = "application/json; charset=utf-8"
)

// # JSON Keys

const (
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
	FieldCode    = "code"
	FieldMessage = "message"
)

// # Postgres

const (
	SchemaUsers = "users"
)

// # Redis Keys

const (
	// RedisNamespace precedes every prefix below.
	RedisNamespace = "hallyulatino:"

	RedisPrefixResetToken  = "auth:reset_token:"
	RedisPrefixVerifyToken = "auth:verify_token:"
	RedisPrefixProfile     = "profile:"
)
