// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles profile management and administrative account control.

It lets members view and edit their own profile and lets administrators list,
inspect, activate and deactivate accounts.

# Architecture

  - Entities: Profile and AdminAccount (read projections of [identity.User]).
  - Domain: Depends on the identity package for the aggregate and its store.
  - Caching: Profiles are read through a Redis-backed cache and invalidated on every write.
*/
package account

import (
	"time"

	"github.com/hallyulatino/api/internal/platform/sec"
	"github.com/hallyulatino/api/internal/users/identity"
)

// # Read Models

// Profile is the private view of an account returned to its owner.
type Profile struct {
	ID                string            `json:"id"`
	Email             string            `json:"email"`
	Nickname          string            `json:"nickname"`
	Country           string            `json:"country"`
	PreferredLanguage identity.Language `json:"preferred_language"`
	IsActive          bool              `json:"is_active"`
	IsVerified        bool              `json:"is_verified"`
	Role              sec.UserRole      `json:"role"`
	AvatarURL         *string           `json:"avatar_url"`
	CreatedAt         time.Time         `json:"created_at"`
}

// AdminAccount extends [Profile] with fields only administrators see.
type AdminAccount struct {
	Profile
	OAuthProvider *string   `json:"oauth_provider"`
	HasPassword   bool      `json:"has_password"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewProfile projects an account aggregate into its owner view.
func NewProfile(user *identity.User) *Profile {
	return &Profile{
		ID:                user.ID,
		Email:             user.Email,
		Nickname:          user.Nickname,
		Country:           user.Country,
		PreferredLanguage: user.PreferredLanguage,
		IsActive:          user.IsActive,
		IsVerified:        user.IsVerified,
		Role:              user.Role,
		AvatarURL:         user.AvatarURL,
		CreatedAt:         user.CreatedAt,
	}
}

// NewAdminAccount projects an account aggregate into the administrative view.
func NewAdminAccount(user *identity.User) *AdminAccount {
	return &AdminAccount{
		Profile:       *NewProfile(user),
		OAuthProvider: user.OAuthProvider,
		HasPassword:   user.HasPassword(),
		UpdatedAt:     user.UpdatedAt,
	}
}

// UpdateProfileInput carries a partial update. Nil fields are left unchanged.
//
// An empty AvatarURL clears the avatar.
type UpdateProfileInput struct {
	Nickname          *string
	Country           *string
	PreferredLanguage *string
	AvatarURL         *string
}
