// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes every HTTP body the API produces.
//
// Success bodies are {"data": ...}, optionally with a "meta" page block.
// Error bodies are {"code", "message", "details"} and never carry internal causes.
package respond

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/constants"
	"github.com/hallyulatino/api/internal/platform/ctxutil"
	"github.com/hallyulatino/api/pkg/pagination"
)

// # Envelopes

// SuccessEnvelope wraps a single resource.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PaginatedEnvelope wraps one page of a collection.
type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the client-facing error shape.
type ErrorEnvelope struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// # Success

/*
JSON encodes payload and writes it with statusCode.

Description: The payload is encoded before the status line goes out, so an
unencodable value yields a clean 500 instead of a truncated body.
*/
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		slog.Error("response_encode_failed", slog.Any("error", err))
		statusCode = http.StatusInternalServerError
		body.Reset()
		_ = json.NewEncoder(&body).Encode(ErrorEnvelope{Code: apperr.CodeInternal, Message: "An unexpected error occurred"})
	}

	writer.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(body.Bytes())
}

// OK writes 200 with data in the success envelope.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// Created writes 201 with data in the success envelope.
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// Paginated writes 200 with a page of data and its metadata.
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

// NoContent writes 204 with no body.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// # Errors

/*
Error renders err as an ErrorEnvelope.

Description: Anything that is not an *apperr.AppError becomes INTERNAL_ERROR.
Server-side failures are logged with their cause through the request logger;
the cause itself never reaches the client. A 401 also sets the Bearer challenge.

Parameters:
  - writer: http.ResponseWriter
  - request: *http.Request (source of the request logger)
  - err: error
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := classify(err)

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.Any("cause", err),
		)
	}

	if appError.HTTPStatus == http.StatusUnauthorized {
		writer.Header().Set(constants.HeaderAuthenticate, constants.BearerScheme)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Code:    appError.Code,
		Message: appError.Message,
		Details: appError.Details,
	})
}

func classify(err error) *apperr.AppError {
	var appError *apperr.AppError
	if errors.As(err, &appError) {
		return appError
	}
	return apperr.Internal(err)
}
