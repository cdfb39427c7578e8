// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/constants"
	"github.com/hallyulatino/api/internal/platform/ctxutil"
	"github.com/hallyulatino/api/internal/platform/respond"
	"github.com/hallyulatino/api/internal/platform/sec"
	"github.com/hallyulatino/api/internal/users/identity"
)

// TokenVerifier defines the interface needed to verify access tokens in middleware.
//
// Defining it here decouples the middleware from [sec.TokenService] and lets
// tests inject fakes.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*sec.Claims, error)
}

// AccountResolver loads the account named by a token subject.
//
// Absence is reported as (nil, nil), matching [identity.UserRepository].
type AccountResolver interface {
	FindByID(context context.Context, id string) (*identity.User, error)
}

// accountAnnotator is implemented by the access-log writer so the final log line carries the user id.
type accountAnnotator interface {
	annotateAccount(userID string)
}

// Authenticate extracts and verifies the bearer token from the Authorization header.
//
// # Flow
//  1. Absent header: the request proceeds as anonymous.
//  2. Header must be 'Bearer <token>'.
//  3. Verify the token via [TokenVerifier].
//  4. Resolve the subject via [AccountResolver]; unknown or inactive accounts are rejected.
//  5. Inject the account and claims into the request context.
//
// Every rejection is a 401 with a Bearer challenge. Only the log carries the reason.
func Authenticate(verifier TokenVerifier, accounts AccountResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := request.Context()
			logger := ctxutil.GetLogger(ctx)

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, token, found := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !found || !strings.EqualFold(scheme, constants.BearerScheme) || token == "" {
				logger.WarnContext(ctx, "auth_gate_rejected", slog.String("reason", "malformed_header"))
				respond.Error(writer, request, apperr.InvalidCredentials())
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyAccessToken(token)
			if err != nil {
				reason := "invalid_token"
				if apperr.HasCode(err, apperr.CodeTokenExpired) {
					reason = "expired_token"
				}
				logger.WarnContext(ctx, "auth_gate_rejected", slog.String("reason", reason))
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Account Resolution ─────────────────────────────────────────
			account, err := accounts.FindByID(ctx, claims.Subject)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if account == nil || !account.CanLogin() {
				reason := "unknown_subject"
				if account != nil {
					reason = "inactive_account"
				}
				logger.WarnContext(ctx, "auth_gate_rejected",
					slog.String("reason", reason),
					slog.String("user_id", claims.Subject),
				)
				respond.Error(writer, request, apperr.InvalidCredentials())
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			if annotator, ok := writer.(accountAnnotator); ok {
				annotator.annotateAccount(account.ID)
			}

			ctx = ctxutil.WithAccount(ctx, account)
			ctx = ctxutil.WithClaims(ctx, claims)
			ctx = ctxutil.WithLogger(ctx, logger.With(slog.String("user_id", account.ID)))

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAccount(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireActive rejects accounts whose active flag is cleared with 403 rather than 401.
func RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		account := ctxutil.GetAccount(request.Context())
		if account == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}

		if !account.IsActive {
			respond.Error(writer, request, apperr.InactiveUser())
			return
		}

		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated account doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It implies
// [RequireAuth] so you don't need to mount both.
//
// The role is read from the resolved account, not the token, so a demotion
// takes effect on the next request.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			account := ctxutil.GetAccount(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if account == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !account.Role.AtLeast(role) {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "auth_role_denied",
					slog.String("role", account.Role.String()),
					slog.String("required", role.String()),
				)
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
