// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error vocabulary shared by services and the HTTP layer.

Every failure a client may see is an [*AppError]: a stable machine code, a
client-safe message and the HTTP status it renders as. Each code has exactly
one status; the table below is the single place that pairing lives.
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Error Codes

const (
	CodeInvalidEmail       = "INVALID_EMAIL"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInactiveUser       = "INACTIVE_USER"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeInvalidEmail:       http.StatusBadRequest,
	CodeWeakPassword:       http.StatusBadRequest,
	CodeValidation:         http.StatusBadRequest,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeTokenExpired:       http.StatusUnauthorized,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeInactiveUser:       http.StatusForbidden,
	CodeForbidden:          http.StatusForbidden,
	CodeUserNotFound:       http.StatusNotFound,
	CodeNotFound:           http.StatusNotFound,
	CodeEmailAlreadyExists: http.StatusConflict,
	CodeConflict:           http.StatusConflict,
	CodeInternal:           http.StatusInternalServerError,
}

// # Types

// AppError is a classified failure. Only Code, Message and Details are
// serialized; Cause stays server-side.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError names one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: statusByCode[code]}
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause returns a copy carrying cause for the logs; code and message are unchanged.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// # Credentials

// InvalidEmail rejects a malformed address. The value itself is not echoed.
func InvalidEmail(reason string) *AppError { return newError(CodeInvalidEmail, reason) }

// WeakPassword names the first password rule that failed.
func WeakPassword(reason string) *AppError { return newError(CodeWeakPassword, reason) }

func EmailAlreadyExists() *AppError {
	return newError(CodeEmailAlreadyExists, "Email is already registered")
}

/*
InvalidCredentials is the one answer for every failed login or unusable token.

Description: Unknown email, wrong password, a deactivated account and a bad
signature all produce this same value. Callers must not add detail to it.
*/
func InvalidCredentials() *AppError {
	return newError(CodeInvalidCredentials, "Invalid email or password")
}

// TokenExpired is reserved for a correctly signed token past its exp claim.
func TokenExpired() *AppError { return newError(CodeTokenExpired, "Token has expired") }

// UserNotFound is used by profile and admin flows, never by login.
func UserNotFound() *AppError { return newError(CodeUserNotFound, "User not found") }

func InactiveUser() *AppError { return newError(CodeInactiveUser, "Account is deactivated") }

// # Generic

// NotFound builds "<resource> not found".
func NotFound(resource string) *AppError { return newError(CodeNotFound, resource+" not found") }

func Unauthorized(message string) *AppError { return newError(CodeUnauthorized, message) }

func Forbidden(message string) *AppError { return newError(CodeForbidden, message) }

// Conflict covers unique violations other than the email index.
func Conflict(message string) *AppError { return newError(CodeConflict, message) }

// ValidationError carries one FieldError per rejected field.
func ValidationError(message string, details ...FieldError) *AppError {
	validation := newError(CodeValidation, message)
	validation.Details = details
	return validation
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	internal := newError(CodeInternal, "An unexpected error occurred")
	internal.Cause = cause
	return internal
}

// # Inspection

// As returns the first *AppError in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

// HasCode reports whether err's chain holds an *AppError with code.
func HasCode(err error, code string) bool {
	appError := As(err)
	return appError != nil && appError.Code == code
}
