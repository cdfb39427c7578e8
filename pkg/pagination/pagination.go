// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination turns ?page=&limit= into LIMIT/OFFSET and reports the
// resulting page position back to clients.
package pagination

import (
	"net/http"
	"strconv"
)

// Pages are 1-based; limits outside [1, MaxLimit] fall back to DefaultLimit.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds a clamped page and limit.
type Params struct {
	Page  int
	Limit int
}

// NewParams clamps page and limit.
func NewParams(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset is the number of rows before the first row of the page.
func (p Params) Offset() int {
	return max(p.Page-1, 0) * p.Limit
}

// Meta is the "meta" block of a paginated response.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewMeta describes params's page within total rows.
func NewMeta(params Params, total int) Meta {
	var totalPages int
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
	}
}

// FromRequest reads page and limit from the query string; junk values take the defaults.
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()
	return NewParams(atoiOr(query.Get("page"), DefaultPage), atoiOr(query.Get("limit"), DefaultLimit))
}

func atoiOr(raw string, fallback int) int {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return fallback
}
