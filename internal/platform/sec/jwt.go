// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer and the authorization middleware.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hallyulatino/api/internal/platform/apperr"
)

// # Token Types

const (
	// TokenTypeAccess marks short-lived tokens presented on every request.
	TokenTypeAccess = "access"

	// TokenTypeRefresh marks long-lived tokens exchanged for a new pair.
	TokenTypeRefresh = "refresh"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = "HS256"

// signingMethods lists the symmetric algorithms a [TokenService] may be configured with.
var signingMethods = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// Claims represents the payload embedded inside both access and refresh tokens.
//
// # Shape
//
// Refresh tokens carry only sub, iat, exp and type. Access tokens additionally
// carry the account email and role so handlers can log and authorize without
// decoding anything else.
type Claims struct {
	jwt.RegisteredClaims

	Type  string `json:"type"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// TokenConfig holds the signing material and lifetimes. It is read once at construction.
type TokenConfig struct {
	SecretKey       string
	Algorithm       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// TokenService issues and verifies signed, expiring bearer tokens.
//
// It is stateless and safe for concurrent use.
type TokenService struct {
	secret     []byte
	method     *jwt.SigningMethodHMAC
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService creates a new TokenService.
//
// It fails when the key is empty, the algorithm is not a supported HMAC
// variant, or either lifetime is not positive.
func NewTokenService(config TokenConfig) (*TokenService, error) {
	if config.SecretKey == "" {
		return nil, errors.New("sec: token signing key must not be empty")
	}

	algorithm := config.Algorithm
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}

	method, ok := signingMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("sec: unsupported signing algorithm %q", algorithm)
	}

	if config.AccessTokenTTL <= 0 || config.RefreshTokenTTL <= 0 {
		return nil, errors.New("sec: token lifetimes must be positive")
	}

	return &TokenService{
		secret:     []byte(config.SecretKey),
		method:     method,
		accessTTL:  config.AccessTokenTTL,
		refreshTTL: config.RefreshTokenTTL,
		now:        time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads the current time from now.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *service
	clone.now = now
	return &clone
}

// AccessTokenTTLSeconds reports the access token lifetime so callers can expose it as expires_in.
func (service *TokenService) AccessTokenTTLSeconds() int {
	return int(service.accessTTL / time.Second)
}

// # Issuance

// CreateAccessToken mints an access token carrying the subject, email and role.
func (service *TokenService) CreateAccessToken(userID, email, role string) (string, error) {
	claims := service.baseClaims(userID, TokenTypeAccess, service.accessTTL)
	claims.Email = email
	claims.Role = role

	return service.sign(claims)
}

// CreateRefreshToken mints a refresh token carrying only the subject.
func (service *TokenService) CreateRefreshToken(userID string) (string, error) {
	return service.sign(service.baseClaims(userID, TokenTypeRefresh, service.refreshTTL))
}

func (service *TokenService) baseClaims(userID, tokenType string, timeToLive time.Duration) *Claims {
	currentTime := service.now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Type: tokenType,
	}
}

func (service *TokenService) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(service.method, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signedToken, nil
}

// # Verification

// VerifyAccessToken validates an access token and returns its claims.
//
// # Errors
//
//   - [apperr.CodeTokenExpired]: signature valid, expiry passed.
//   - [apperr.CodeInvalidCredentials]: bad signature, malformed, wrong algorithm, or not an access token.
func (service *TokenService) VerifyAccessToken(tokenString string) (*Claims, error) {
	return service.verify(tokenString, TokenTypeAccess)
}

// VerifyRefreshToken validates a refresh token and returns its claims.
//
// Errors mirror [TokenService.VerifyAccessToken] with the type fixed to refresh.
func (service *TokenService) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return service.verify(tokenString, TokenTypeRefresh)
}

func (service *TokenService) verify(tokenString, expectedType string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return service.secret, nil },
		jwt.WithValidMethods([]string{service.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)

	// The signature is checked before the claims, so an expiry error implies a genuine token.
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.TokenExpired().WithCause(err)
		}
		return nil, apperr.InvalidCredentials().WithCause(err)
	}

	if claims.Type != expectedType {
		return nil, apperr.InvalidCredentials().WithCause(
			fmt.Errorf("sec: expected %s token, got %q", expectedType, claims.Type),
		)
	}

	return claims, nil
}
