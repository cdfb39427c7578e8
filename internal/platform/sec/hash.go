// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// HashCost is the bcrypt work factor. It dominates login latency on purpose.
	HashCost = 12

	// MaxPasswordBytes is the bcrypt input limit. Bytes past it do not affect the hash.
	MaxPasswordBytes = 72
)

/*
HashPassword returns the bcrypt hash of password at HashCost.

Description: Input past MaxPasswordBytes is cut off before hashing, so two
passwords sharing a 72-byte prefix verify against each other's hash.
*/
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(significantBytes(password), HashCost)
	if err != nil {
		return "", fmt.Errorf("sec: hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches hash. A malformed hash is a mismatch.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), significantBytes(password)) == nil
}

func significantBytes(password string) []byte {
	return []byte(password[:min(len(password), MaxPasswordBytes)])
}
