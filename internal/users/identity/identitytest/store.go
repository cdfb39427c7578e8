// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package identitytest provides an in-memory [identity.UserRepository] for tests.
package identitytest

import (
	"context"
	"sort"
	"sync"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/users/identity"
	"github.com/hallyulatino/api/pkg/pagination"
)

// MemoryStore keeps accounts in a map and counts calls so tests can assert side effects.
//
// Returned accounts are copies; mutating them does not change the store.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]identity.User

	// Err, when set, is returned by every operation.
	Err error

	CreateCalls int
	UpdateCalls int
}

// NewMemoryStore returns a store seeded with users.
func NewMemoryStore(users ...*identity.User) *MemoryStore {
	store := &MemoryStore{accounts: make(map[string]identity.User)}
	for _, user := range users {
		store.accounts[user.ID] = *user
	}
	return store
}

// Put inserts or replaces an account without counting as a Create call.
func (store *MemoryStore) Put(user *identity.User) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.accounts[user.ID] = *user
}

// Remove deletes an account without counting as a call.
func (store *MemoryStore) Remove(id string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.accounts, id)
}

func (store *MemoryStore) Create(_ context.Context, user *identity.User) (*identity.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.CreateCalls++
	if store.Err != nil {
		return nil, store.Err
	}

	for _, existing := range store.accounts {
		if existing.Email == user.Email {
			return nil, apperr.EmailAlreadyExists()
		}
	}

	store.accounts[user.ID] = *user
	return clone(*user), nil
}

func (store *MemoryStore) FindByID(_ context.Context, id string) (*identity.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.Err != nil {
		return nil, store.Err
	}

	user, ok := store.accounts[id]
	if !ok {
		return nil, nil
	}
	return clone(user), nil
}

func (store *MemoryStore) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.Err != nil {
		return nil, store.Err
	}

	for _, user := range store.accounts {
		if user.Email == email {
			return clone(user), nil
		}
	}
	return nil, nil
}

func (store *MemoryStore) Update(_ context.Context, user *identity.User) (*identity.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.UpdateCalls++
	if store.Err != nil {
		return nil, store.Err
	}

	if _, ok := store.accounts[user.ID]; !ok {
		return nil, apperr.UserNotFound()
	}

	store.accounts[user.ID] = *user
	return clone(*user), nil
}

func (store *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.Err != nil {
		return false, store.Err
	}

	_, ok := store.accounts[id]
	delete(store.accounts, id)
	return ok, nil
}

func (store *MemoryStore) ExistsByEmail(context context.Context, email string) (bool, error) {
	user, err := store.FindByEmail(context, email)
	return user != nil, err
}

func (store *MemoryStore) FindByExternalIdentity(_ context.Context, provider, providerID string) (*identity.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.Err != nil {
		return nil, store.Err
	}

	for _, user := range store.accounts {
		if user.OAuthProvider != nil && user.OAuthID != nil &&
			*user.OAuthProvider == provider && *user.OAuthID == providerID {
			return clone(user), nil
		}
	}
	return nil, nil
}

func (store *MemoryStore) List(_ context.Context, params pagination.Params) ([]*identity.User, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.Err != nil {
		return nil, 0, store.Err
	}

	all := make([]*identity.User, 0, len(store.accounts))
	for _, user := range store.accounts {
		all = append(all, clone(user))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	start := min(params.Offset(), len(all))
	end := min(start+params.Limit, len(all))
	return all[start:end], len(all), nil
}

func clone(user identity.User) *identity.User {
	return &user
}

var _ identity.UserRepository = (*MemoryStore)(nil)
