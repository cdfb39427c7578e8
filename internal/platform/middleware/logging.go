// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hallyulatino/api/internal/platform/ctxutil"
)

// # Access Log

// accessRecorder captures the response status and, once Authenticate has
// resolved a bearer token, the account id for the access log line.
type accessRecorder struct {
	chimw.WrapResponseWriter
	userID string
}

func (recorder *accessRecorder) annotateAccount(userID string) {
	recorder.userID = userID
}

/*
StructuredLogger derives a request-scoped logger and writes one
"http_request_finished" entry per request.

Description: The derived logger carries request_id, method, path and ip and is
stored in the context for handlers and respond.Error. The final entry is logged
at Error for 5xx, Warn for 4xx and Info otherwise.

Parameters:
  - logger: *slog.Logger (base application logger)

Returns:
  - func(http.Handler) http.Handler
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			context := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &accessRecorder{WrapResponseWriter: chimw.NewWrapResponseWriter(writer, request.ProtoMajor)}

			next.ServeHTTP(recorder, request.WithContext(context))

			status := recorder.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attributes := []slog.Attr{
				slog.Int("status", status),
				slog.Int("bytes", recorder.BytesWritten()),
				slog.Int64("latency_ms", time.Since(started).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			if recorder.userID != "" {
				attributes = append(attributes, slog.String("user_id", recorder.userID))
			}

			requestLogger.LogAttrs(context, levelFor(status), "http_request_finished", attributes...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
