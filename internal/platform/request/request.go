// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads bodies, path parameters and the resolved account off a request.
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/ctxutil"
	"github.com/hallyulatino/api/internal/platform/validate"
	"github.com/hallyulatino/api/internal/users/identity"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// # Bodies

// Checkable bodies report their own missing or malformed fields.
type Checkable interface {
	Check(validator *validate.Validator)
}

// DecodeJSON decodes at most maxBodyBytes into target. Any failure is validate.ErrInvalidJSON.
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	if err := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxBodyBytes)).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Bind decodes the body into a T and, when *T is [Checkable], runs its checks.

Returns:
  - T: the decoded body
  - error: validate.ErrInvalidJSON or an apperr.CodeValidation error listing every failed field
*/
func Bind[T any](writer http.ResponseWriter, request *http.Request) (T, error) {
	var body T
	if err := DecodeJSON(writer, request, &body); err != nil {
		return body, err
	}

	if checkable, ok := any(&body).(Checkable); ok {
		validator := &validate.Validator{}
		checkable.Check(validator)
		if err := validator.Err(); err != nil {
			return body, err
		}
	}
	return body, nil
}

// # Routing

// Param returns the chi URL parameter name.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// # Caller

// Account is the account Authenticate resolved, nil for anonymous requests.
func Account(request *http.Request) *identity.User {
	return ctxutil.GetAccount(request.Context())
}

// RequiredAccount is [Account] with anonymity turned into apperr.CodeUnauthorized.
func RequiredAccount(request *http.Request) (*identity.User, error) {
	if account := Account(request); account != nil {
		return account, nil
	}
	return nil, apperr.Unauthorized("Authentication required")
}

// RequiredUserID is the id of [RequiredAccount].
func RequiredUserID(request *http.Request) (string, error) {
	account, err := RequiredAccount(request)
	if err != nil {
		return "", err
	}
	return account.ID, nil
}
