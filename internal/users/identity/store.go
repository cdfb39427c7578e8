// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"

	"github.com/hallyulatino/api/pkg/pagination"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// # Absence
//
// Lookups return (nil, nil) when nothing matches. A non-nil error always means
// the store itself failed.
type UserRepository interface {

	/*
		Create persists a brand-new account.

		Returns:
		  - *User: the stored account
		  - error: apperr.CodeEmailAlreadyExists on a unique violation, otherwise persistence failures
	*/
	Create(context context.Context, user *User) (*User, error)

	// FindByID returns the account with the given ID, or nil.
	FindByID(context context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given normalized email, or nil.
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Update persists every mutable field of user.

		Returns:
		  - *User: the stored account
		  - error: persistence failures
	*/
	Update(context context.Context, user *User) (*User, error)

	// Delete physically removes the account and reports whether a row existed.
	Delete(context context.Context, id string) (bool, error)

	// ExistsByEmail reports whether any account uses the normalized email.
	ExistsByEmail(context context.Context, email string) (bool, error)

	// FindByExternalIdentity returns the account linked to a provider identity, or nil.
	FindByExternalIdentity(context context.Context, provider, providerID string) (*User, error)

	/*
		List returns one page of accounts, newest first.

		Returns:
		  - []*User: the page
		  - int: total number of accounts
		  - error: retrieval failures
	*/
	List(context context.Context, params pagination.Params) ([]*User, int, error)
}
