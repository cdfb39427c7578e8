// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"

	"github.com/hallyulatino/api/internal/platform/constants"
)

// corsMaxAge is how long, in seconds, browsers may cache a preflight answer.
const corsMaxAge = 300

// CORSConfig is the slice of configuration the CORS middleware reads.
type CORSConfig interface {
	IsDevelopment() bool
	AllowedOrigins() []string
}

/*
CORS answers browser cross-origin checks from the configured allow-list.

Description: Development accepts any origin. A "*" entry accepts any origin
too, but then credentials are not allowed. Preflight requests stop here and
never reach authentication.

Parameters:
  - cfg: CORSConfig

Returns:
  - func(http.Handler) http.Handler
*/
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins()

	options := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept", constants.HeaderContentType, constants.HeaderAuthorization, constants.HeaderXRequestID,
		},
		ExposedHeaders:   []string{constants.HeaderXRequestID},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           corsMaxAge,
	}

	// An empty list means "all origins" to the library; here it means none.
	switch {
	case cfg.IsDevelopment():
		options.AllowOriginFunc = func(*http.Request, string) bool { return true }
	case len(origins) == 0:
		options.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}

	return cors.Handler(options)
}
