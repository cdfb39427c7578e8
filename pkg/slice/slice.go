// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds generic helpers for projecting store results into read models.
package slice

// Map returns a new slice holding transform applied to every element of input.
//
// A nil input yields an empty, non-nil slice.
func Map[T any, U any](input []T, transform func(T) U) []U {
	result := make([]U, len(input))
	for i, item := range input {
		result[i] = transform(item)
	}
	return result
}
