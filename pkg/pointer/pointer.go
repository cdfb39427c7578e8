// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer converts between optional (*T) and plain values.
package pointer

// To returns &v.
func To[T any](v T) *T { return &v }

// Val dereferences p, yielding T's zero value for nil.
func Val[T any](p *T) T {
	if p != nil {
		return *p
	}
	var zero T
	return zero
}

// NilIfZero maps the zero value to nil, so an empty string clears an optional column.
func NilIfZero[T comparable](v T) *T {
	if v == *new(T) {
		return nil
	}
	return &v
}
