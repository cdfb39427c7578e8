// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns used by hand-written SQL.
package schema

import "strings"

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table             string
	ID                string
	Email             string
	Password          string
	Nickname          string
	Country           string
	PreferredLanguage string
	IsActive          string
	IsVerified        string
	Role              string
	AvatarURL         string
	OAuthProvider     string
	OAuthID           string
	CreatedAt         string
	UpdatedAt         string

	// Unique index names, as reported in constraint violations.
	EmailKey         string
	OAuthIdentityKey string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:             "users.account",
	ID:                "id",
	Email:             "email",
	Password:          "passwordhash",
	Nickname:          "nickname",
	Country:           "country",
	PreferredLanguage: "preferredlanguage",
	IsActive:          "isactive",
	IsVerified:        "isverified",
	Role:              "role",
	AvatarURL:         "avatarurl",
	OAuthProvider:     "oauthprovider",
	OAuthID:           "oauthid",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",

	EmailKey:         "account_email_key",
	OAuthIdentityKey: "account_oauth_identity_key",
}

// Columns returns every column in scan order.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.Nickname, t.Country, t.PreferredLanguage,
		t.IsActive, t.IsVerified, t.Role, t.AvatarURL, t.OAuthProvider, t.OAuthID,
		t.CreatedAt, t.UpdatedAt,
	}
}

// MutableColumns returns the columns an UPDATE may set, in argument order after the id.
func (t UserAccountTable) MutableColumns() []string {
	return []string{
		t.Email, t.Password, t.Nickname, t.Country, t.PreferredLanguage,
		t.IsActive, t.IsVerified, t.Role, t.AvatarURL, t.OAuthProvider, t.OAuthID,
		t.UpdatedAt,
	}
}

// Select returns the comma separated projection of [UserAccountTable.Columns].
func (t UserAccountTable) Select() string {
	return strings.Join(t.Columns(), ", ")
}
