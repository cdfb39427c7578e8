// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "github.com/hallyulatino/api/internal/users/identity"

// # Public Projections

// UserSummary is the minimal account projection returned by login.
type UserSummary struct {
	ID                string            `json:"id"`
	Email             string            `json:"email"`
	Nickname          string            `json:"nickname"`
	PreferredLanguage identity.Language `json:"preferred_language"`
}

// TokenPair is the credential bundle handed to clients.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// RegisterResult is the public projection of a freshly registered account.
type RegisterResult struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Message  string `json:"message"`
}

// LoginResult bundles the issued tokens with the account summary.
type LoginResult struct {
	User   UserSummary `json:"user"`
	Tokens TokenPair   `json:"tokens"`
}

func summarize(user *identity.User) UserSummary {
	return UserSummary{
		ID:                user.ID,
		Email:             user.Email,
		Nickname:          user.Nickname,
		PreferredLanguage: user.PreferredLanguage,
	}
}
