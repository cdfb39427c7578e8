// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the context keys shared by middleware and handlers.
//
// Keys are values of an unexported struct type, so no other package can
// construct a colliding key.
package ctxkey

type key struct{ name string }

// String makes keys readable in debug output.
func (k key) String() string { return "ctxkey." + k.name }

var (
	// RequestID carries the X-Request-ID correlation value (string).
	RequestID = key{"request_id"}

	// Account carries the account resolved from the bearer token (*identity.User).
	Account = key{"account"}

	// Claims carries the verified access token claims (*sec.Claims).
	Claims = key{"claims"}

	// Logger carries the per-request *slog.Logger.
	Logger = key{"logger"}
)
