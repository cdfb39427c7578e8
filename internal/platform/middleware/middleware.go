// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP decorators every route passes through.

Order on the router, outermost first:

  - Metrics: Prometheus request counters and latency.
  - RequestID: correlation id in context and response header.
  - StructuredLogger: request-scoped slog.Logger and the access log line.
  - PanicRecovery: a panic becomes a 500 INTERNAL_ERROR body.
  - CORS: browser origin allow-list.

Authenticate and the Require* guards in authz.go are mounted per route group,
only where a bearer token is needed.
*/
package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/hallyulatino/api/internal/platform/constants"
	"github.com/hallyulatino/api/internal/platform/ctxutil"
	"github.com/hallyulatino/api/pkg/uuid"
)

// maxRequestIDLength bounds client-supplied ids before they reach logs.
const maxRequestIDLength = 128

// # Request Tracing

// RequestID reuses the caller's X-Request-ID or mints a UUIDv7, then echoes it back.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := incomingRequestID(request)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

func incomingRequestID(request *http.Request) string {
	requestID := strings.TrimSpace(request.Header.Get(constants.HeaderXRequestID))
	if requestID == "" || len(requestID) > maxRequestIDLength {
		return uuid.New()
	}
	return requestID
}

// # Client Address

// RealIP returns the client address: X-Real-IP, then the first X-Forwarded-For hop, then the socket peer.
func RealIP(request *http.Request) string {
	if realIP := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); realIP != "" {
		return realIP
	}

	if first, _, _ := strings.Cut(request.Header.Get(constants.HeaderXForwardedFor), ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}

	if host, _, err := net.SplitHostPort(request.RemoteAddr); err == nil {
		return host
	}
	return request.RemoteAddr
}
