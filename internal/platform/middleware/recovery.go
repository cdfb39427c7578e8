// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/constants"
	"github.com/hallyulatino/api/internal/platform/ctxutil"
)

// panicBody is written without the respond package, which may be what panicked.
var panicBody = []byte(`{"` + constants.FieldCode + `":"` + apperr.CodeInternal +
	`","` + constants.FieldMessage + `":"An unexpected error occurred"}` + "\n")

// PanicRecovery turns a handler panic into a logged stack trace and a 500 body.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func PanicRecovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if err, ok := recovered.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(recovered)
				}

				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
					slog.Any("panic", recovered),
					slog.String("stack", string(debug.Stack())),
				)

				writer.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
				writer.WriteHeader(http.StatusInternalServerError)
				_, _ = writer.Write(panicBody)
			}()

			next.ServeHTTP(writer, request)
		})
	}
}
