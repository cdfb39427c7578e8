// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// Single-use token lifetimes and entropy, in bytes before encoding.
const (
	ResetTokenTTL    = time.Hour
	ResetTokenLength = 32

	VerificationTokenTTL    = 24 * time.Hour
	VerificationTokenLength = 32
)

// Client-facing confirmations. Recovery messages never reveal whether an account exists.
const (
	MessageRegistered       = "Registration complete. Please verify your email address."
	MessageVerificationSent = "If the account needs verification, an email has been sent."
	MessageResetRequested   = "If the email is registered, a reset link has been sent."
	MessagePasswordReset    = "Password has been reset."
	MessagePasswordChanged  = "Password has been changed."
	MessageEmailVerified    = "Email address verified."
)
