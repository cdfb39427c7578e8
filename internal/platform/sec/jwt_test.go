// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/sec"
)

const testSecret = "test-secret-key-with-enough-bytes!!"

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()

	service, err := sec.NewTokenService(sec.TokenConfig{
		SecretKey:       testSecret,
		Algorithm:       "HS256",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	return service
}

/*
TestNewTokenService_Validation rejects unusable configurations.
*/
func TestNewTokenService_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config sec.TokenConfig
	}{
		{"empty_key", sec.TokenConfig{Algorithm: "HS256", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour}},
		{"asymmetric_algorithm", sec.TokenConfig{SecretKey: "k", Algorithm: "RS256", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour}},
		{"none_algorithm", sec.TokenConfig{SecretKey: "k", Algorithm: "none", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour}},
		{"zero_ttl", sec.TokenConfig{SecretKey: "k", Algorithm: "HS256", RefreshTokenTTL: time.Hour}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewTokenService(tt.config)
			assert.Error(t, err)
		})
	}
}

/*
TestAccessToken_RoundTrip verifies sub, email, role and type survive signing.
*/
func TestAccessToken_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.CreateAccessToken("user-123", "maria@example.com", "admin")
	require.NoError(t, err)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "maria@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, sec.TokenTypeAccess, claims.Type)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, 30*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

/*
TestRefreshToken_RoundTrip verifies refresh tokens carry only the subject.
*/
func TestRefreshToken_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.CreateRefreshToken("user-123")
	require.NoError(t, err)

	claims, err := service.VerifyRefreshToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, sec.TokenTypeRefresh, claims.Type)
	assert.Empty(t, claims.Email)
	assert.Empty(t, claims.Role)
}

/*
TestVerify_TypeMismatch ensures access and refresh tokens are not interchangeable.
*/
func TestVerify_TypeMismatch(t *testing.T) {
	service := newTokenService(t)

	access, err := service.CreateAccessToken("user-123", "maria@example.com", "user")
	require.NoError(t, err)
	refresh, err := service.CreateRefreshToken("user-123")
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(access)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))

	_, err = service.VerifyAccessToken(refresh)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
}

/*
TestVerify_Expired distinguishes an expired token from an invalid one.
*/
func TestVerify_Expired(t *testing.T) {
	service := newTokenService(t)
	past := service.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })

	token, err := past.CreateAccessToken("user-123", "maria@example.com", "user")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	assert.True(t, apperr.HasCode(err, apperr.CodeTokenExpired))

	refresh, err := service.WithClock(func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }).
		CreateRefreshToken("user-123")
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(refresh)
	assert.True(t, apperr.HasCode(err, apperr.CodeTokenExpired))
}

/*
TestVerify_Invalid covers tampering, foreign keys, wrong algorithms and garbage input.
*/
func TestVerify_Invalid(t *testing.T) {
	service := newTokenService(t)

	token, err := service.CreateAccessToken("user-123", "maria@example.com", "user")
	require.NoError(t, err)

	foreign, err := sec.NewTokenService(sec.TokenConfig{
		SecretKey:       "another-secret-key",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	require.NoError(t, err)
	foreignToken, err := foreign.CreateAccessToken("user-123", "maria@example.com", "admin")
	require.NoError(t, err)

	hs512Token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":  "user-123",
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-123",
		"type": "access",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	// Expired but signed with a foreign key must still be invalid, never "expired".
	expiredForeign, err := foreign.WithClock(func() time.Time { return time.Now().Add(-time.Hour) }).
		CreateAccessToken("user-123", "maria@example.com", "admin")
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":         "not-a-token",
		"empty":           "",
		"tampered":        tampered,
		"foreign_key":     foreignToken,
		"wrong_algorithm": hs512Token,
		"missing_expiry":  noExpiry,
		"expired_foreign": expiredForeign,
	}

	for name, candidate := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := service.VerifyAccessToken(candidate)
			assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials), "got %v", err)
		})
	}
}

/*
TestAccessTokenTTLSeconds reports minutes × 60.
*/
func TestAccessTokenTTLSeconds(t *testing.T) {
	assert.Equal(t, 1800, newTokenService(t).AccessTokenTTLSeconds())
}
