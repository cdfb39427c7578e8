// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used in the service layer for plain input fields. Credential
// values (email, password) validate themselves in the identity package.
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/pkg/uuid"
)

// countryPattern matches an upper-case ISO 3166-1 alpha-2 code.
var countryPattern = regexp.MustCompile(`^[A-Z]{2}$`)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates field failures across a chain of rules.
//
// A Validator is single-use and not safe for concurrent use.
type Validator struct {
	failures []apperr.FieldError
}

// check records message against field unless ok holds.
func (v *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		v.failures = append(v.failures, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// Required fails on an empty or whitespace-only value.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) != "", field, "This field is required")
}

// MinLen fails below min runes.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(utf8.RuneCountInString(value) >= min, field, fmt.Sprintf("Minimum %d characters", min))
}

// MaxLen fails above max runes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(utf8.RuneCountInString(value) <= max, field, fmt.Sprintf("Maximum %d characters", max))
}

// CountryCode fails unless value is two upper-case ASCII letters.
//
// Callers upper-case the value first; lower-case input is rejected here.
func (v *Validator) CountryCode(field, value string) *Validator {
	return v.check(countryPattern.MatchString(value), field, "Must be a two-letter ISO 3166-1 country code")
}

// URL fails unless value is an absolute http(s) URL.
func (v *Validator) URL(field, value string) *Validator {
	parsed, err := url.Parse(value)
	ok := err == nil && parsed.Host != "" && (parsed.Scheme == "http" || parsed.Scheme == "https")
	return v.check(ok, field, "Must be a valid http or https URL")
}

// UUID fails unless value parses as a UUID.
func (v *Validator) UUID(field, value string) *Validator {
	return v.check(uuid.Valid(value), field, "Must be a valid UUID")
}

// OneOf fails unless value is one of allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.check(slices.Contains(allowed, value), field, "Must be one of: "+strings.Join(allowed, ", "))
}

// Err returns a VALIDATION_ERROR carrying every failure, or nil.
func (v *Validator) Err() error {
	if len(v.failures) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.failures...)
}
