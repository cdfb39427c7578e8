// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/sec"
)

// # Strength Policy

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128

	// PasswordSymbols is the punctuation set that satisfies the symbol rule.
	PasswordSymbols = `!@#$%^&*(),.?":{}|<>`

	// Masked replaces the plaintext in every printable representation.
	Masked = "***"
)

// Password holds a transient plaintext that passed the strength policy.
//
// # Security
//
// It is input-only. It never reaches storage, and its String, GoString,
// LogValue and MarshalJSON all yield [Masked].
type Password struct {
	plain string
}

/*
NewPassword checks plain against the strength policy.

Rules: length in [8,128] characters; at least one ASCII uppercase letter,
one ASCII lowercase letter, one digit and one symbol from [PasswordSymbols].

Returns:
  - Password: the accepted value
  - error: apperr.CodeWeakPassword naming the first violated rule
*/
func NewPassword(plain string) (Password, error) {
	length := utf8.RuneCountInString(plain)

	if length < MinPasswordLength {
		return Password{}, apperr.WeakPassword("Password must be at least 8 characters long")
	}
	if length > MaxPasswordLength {
		return Password{}, apperr.WeakPassword("Password must be at most 128 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range plain {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return Password{}, apperr.WeakPassword("Password must contain at least one uppercase letter")
	case !hasLower:
		return Password{}, apperr.WeakPassword("Password must contain at least one lowercase letter")
	case !hasDigit:
		return Password{}, apperr.WeakPassword("Password must contain at least one digit")
	case !hasSymbol:
		return Password{}, apperr.WeakPassword("Password must contain at least one special character")
	}

	return Password{plain: plain}, nil
}

// Hash produces a salted bcrypt hash of the first 72 bytes of the plaintext.
func (p Password) Hash() (string, error) {
	return sec.HashPassword(p.plain)
}

// Verify reports whether the plaintext matches hash.
func (p Password) Verify(hash string) bool {
	return sec.CheckPasswordHash(p.plain, hash)
}

// VerifyHash compares plain against hash without applying the strength policy.
//
// Login uses this so a password accepted under an older policy keeps working.
// A malformed hash yields false.
func VerifyHash(plain, hash string) bool {
	return sec.CheckPasswordHash(plain, hash)
}

// # Masking

func (Password) String() string   { return Masked }
func (Password) GoString() string { return Masked }

// LogValue implements [slog.LogValuer].
func (Password) LogValue() slog.Value { return slog.StringValue(Masked) }

// MarshalJSON implements json.Marshaler.
func (Password) MarshalJSON() ([]byte, error) { return []byte(`"` + Masked + `"`), nil }
