// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid issues the UUIDv7 strings used for account ids and request ids.
//
// Version 7 values sort by creation time, so inserts land at the end of the
// primary key index.
package uuid

import "github.com/google/uuid"

// New returns a fresh UUIDv7. It panics only if the system entropy source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Valid reports whether s is a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
