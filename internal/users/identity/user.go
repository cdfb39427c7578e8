// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"strings"
	"time"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/sec"
	"github.com/hallyulatino/api/pkg/slice"
	"github.com/hallyulatino/api/pkg/uuid"
)

var roleNames = strings.Join(slice.Map(sec.Roles(), sec.UserRole.String), ", ")

// # Languages

// Language is the interface language an account prefers.
type Language string

const (
	LanguageSpanish    Language = "es"
	LanguagePortuguese Language = "pt"
	LanguageEnglish    Language = "en"
)

// DefaultLanguage is assigned when registration omits a preference.
const DefaultLanguage = LanguageSpanish

// # Profile Limits

const (
	NicknameMinLength  = 2
	NicknameMaxLength  = 20
	AvatarURLMaxLength = 500
)

// Languages lists every supported language code, in display order.
func Languages() []string {
	return []string{string(LanguageSpanish), string(LanguagePortuguese), string(LanguageEnglish)}
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case LanguageSpanish, LanguagePortuguese, LanguageEnglish:
		return true
	}
	return false
}

// # Domain Entities

// User is the authenticatable account aggregate.
//
// Email uniqueness is enforced by the store, not by this type.
// An account created through an external provider may have a nil PasswordHash,
// in which case password login is unavailable for it.
type User struct {
	ID                string       `json:"id"`
	Email             string       `json:"email"`
	PasswordHash      *string      `json:"-"`
	Nickname          string       `json:"nickname"`
	Country           string       `json:"country"`
	PreferredLanguage Language     `json:"preferred_language"`
	IsActive          bool         `json:"is_active"`
	IsVerified        bool         `json:"is_verified"`
	Role              sec.UserRole `json:"role"`
	AvatarURL         *string      `json:"avatar_url,omitempty"`
	OAuthProvider     *string      `json:"oauth_provider,omitempty"`
	OAuthID           *string      `json:"-"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// NewUserInput carries what registration (or a first external-provider login) knows.
type NewUserInput struct {
	Email             Email
	Nickname          string
	Country           string
	PreferredLanguage Language
	Role              sec.UserRole
	OAuthProvider     *string
	OAuthID           *string
}

/*
NewUser builds a fresh, active, unverified account.

Description: Assigns a UUIDv7 identifier and defaults the role to user and the
language to Spanish. No password is set; call [User.SetPassword] for password accounts.

Returns:
  - *User: the new aggregate
  - error: apperr.CodeValidation for an unknown role or language
*/
func NewUser(input NewUserInput) (*User, error) {
	if input.Email.IsZero() {
		return nil, apperr.InvalidEmail("Email cannot be empty")
	}

	role := input.Role
	if role == "" {
		role = sec.RoleUser
	}
	if !role.Valid() {
		return nil, apperr.ValidationError("Invalid role", apperr.FieldError{Field: FieldRole, Message: "must be one of " + roleNames})
	}

	language := input.PreferredLanguage
	if language == "" {
		language = DefaultLanguage
	}
	if !language.Valid() {
		return nil, apperr.ValidationError("Invalid language", apperr.FieldError{Field: FieldPreferredLanguage, Message: "must be one of es, pt, en"})
	}

	now := time.Now().UTC()

	return &User{
		ID:                uuid.New(),
		Email:             input.Email.String(),
		Nickname:          input.Nickname,
		Country:           input.Country,
		PreferredLanguage: language,
		IsActive:          true,
		IsVerified:        false,
		Role:              role,
		OAuthProvider:     input.OAuthProvider,
		OAuthID:           input.OAuthID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// # Behaviour

// CanLogin reports whether the account may authenticate. Only the active flag matters.
func (u *User) CanLogin() bool { return u.IsActive }

// HasPassword reports whether password login is possible for this account.
func (u *User) HasPassword() bool { return u.PasswordHash != nil && *u.PasswordHash != "" }

// IsExternalIdentity reports whether the account was created through an external provider.
func (u *User) IsExternalIdentity() bool { return u.OAuthProvider != nil && *u.OAuthProvider != "" }

// Activate sets the active flag.
func (u *User) Activate() {
	u.IsActive = true
	u.touch()
}

// Deactivate clears the active flag. Existing tokens stop working at the gate.
func (u *User) Deactivate() {
	u.IsActive = false
	u.touch()
}

// VerifyEmail marks the address as confirmed.
func (u *User) VerifyEmail() {
	u.IsVerified = true
	u.touch()
}

// SetPassword replaces the stored hash with a hash of password.
func (u *User) SetPassword(password Password) error {
	hash, err := password.Hash()
	if err != nil {
		return err
	}

	u.PasswordHash = &hash
	u.touch()
	return nil
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}

// # Field Identifiers

// Field names used in validation details across the user-facing packages.
const (
	FieldEmail             = "email"
	FieldPassword          = "password"
	FieldNickname          = "nickname"
	FieldCountry           = "country"
	FieldPreferredLanguage = "preferred_language"
	FieldRole              = "role"
	FieldAvatarURL         = "avatar_url"
	FieldToken             = "token"
	FieldRefreshToken      = "refresh_token"
	FieldCurrentPassword   = "current_password"
	FieldNewPassword       = "new_password"
)
