// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

/*
OneTimeTokenRepository keeps short-lived, single-use tokens: password reset
links and email verification links.

Entries are keyed by sec.HashToken of the raw value, so a leaked key set cannot
be replayed. Consume reads and removes an entry in one step: of several callers
racing on the same token, exactly one gets the userID and the rest see
apperr.CodeNotFound, as does any caller holding a missing or expired token.
*/
type OneTimeTokenRepository interface {
	Set(context context.Context, token string, userID string, ttl time.Duration) error
	Consume(context context.Context, token string) (userID string, err error)
}
