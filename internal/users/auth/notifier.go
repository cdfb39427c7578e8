// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
	"strings"
)

// Notifier delivers out-of-band messages that carry one-time tokens.
type Notifier interface {
	SendVerification(context context.Context, email, token string) error
	SendPasswordReset(context context.Context, email, token string) error
}

// LogNotifier writes dispatches to the structured log instead of sending mail.
//
// The raw token is only logged when ExposeTokens is set (development).
type LogNotifier struct {
	Logger       *slog.Logger
	ExposeTokens bool
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger, exposeTokens bool) *LogNotifier {
	return &LogNotifier{Logger: logger, ExposeTokens: exposeTokens}
}

func (notifier *LogNotifier) SendVerification(context context.Context, email, token string) error {
	notifier.log(context, "auth_verification_dispatched", email, token)
	return nil
}

func (notifier *LogNotifier) SendPasswordReset(context context.Context, email, token string) error {
	notifier.log(context, "auth_password_reset_dispatched", email, token)
	return nil
}

func (notifier *LogNotifier) log(context context.Context, event, email, token string) {
	attributes := []any{slog.String("recipient_domain", domainOf(email))}
	if notifier.ExposeTokens {
		attributes = append(attributes, slog.String("token", token))
	}
	notifier.Logger.InfoContext(context, event, attributes...)
}

func domainOf(email string) string {
	if at := strings.LastIndexByte(email, '@'); at >= 0 {
		return email[at+1:]
	}
	return ""
}
