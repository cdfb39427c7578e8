// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity holds the authenticatable account and its credential value types.

# Architecture

This layer has no knowledge of HTTP, tokens or caching. It defines:

  - Email and Password: self-validating values whose constructors are the only entry point.
  - User: the account aggregate and its state transitions.
  - UserRepository: the account store contract, plus its PostgreSQL adapter.

Every other user-facing package (auth, account, the authorization middleware)
depends on this one and never the other way round.
*/
package identity

import (
	"regexp"
	"strings"

	"github.com/hallyulatino/api/internal/platform/apperr"
)

// MaxEmailLength is the longest accepted address after normalization.
const MaxEmailLength = 255

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email is a normalized, validated email address.
//
// The zero value is never returned by [NewEmail]; it only appears as the
// companion of a non-nil error.
type Email struct {
	value string
}

/*
NewEmail validates and normalizes a raw address.

Description: Lower-cases, trims, then checks the pattern and length.

Returns:
  - Email: the normalized address
  - error: apperr.CodeInvalidEmail; the message never echoes the input
*/
func NewEmail(raw string) (Email, error) {
	if raw == "" {
		return Email{}, apperr.InvalidEmail("Email cannot be empty")
	}

	normalized := strings.TrimSpace(strings.ToLower(raw))

	if !emailPattern.MatchString(normalized) {
		return Email{}, apperr.InvalidEmail("Invalid email format")
	}

	if len(normalized) > MaxEmailLength {
		return Email{}, apperr.InvalidEmail("Email is too long")
	}

	return Email{value: normalized}, nil
}

// String returns the normalized address.
func (e Email) String() string { return e.value }

// LocalPart returns the part before the @.
func (e Email) LocalPart() string {
	local, _, _ := strings.Cut(e.value, "@")
	return local
}

// Domain returns the part after the @.
func (e Email) Domain() string {
	_, domain, _ := strings.Cut(e.value, "@")
	return domain
}

// IsZero reports whether e was not produced by [NewEmail].
func (e Email) IsZero() bool { return e.value == "" }
