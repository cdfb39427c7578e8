// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/cache"
	"github.com/hallyulatino/api/internal/platform/constants"
	"github.com/hallyulatino/api/internal/platform/validate"
	"github.com/hallyulatino/api/internal/users/identity"
	"github.com/hallyulatino/api/pkg/pagination"
	"github.com/hallyulatino/api/pkg/pointer"
	"github.com/hallyulatino/api/pkg/slice"
)

// # Service Layer

// Service orchestrates profile reads and writes plus administrative account control.
type Service struct {
	userRepository identity.UserRepository
	profileCache   *cache.Cache
	logger         *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(userRepo identity.UserRepository, profileCache *cache.Cache, logger *slog.Logger) *Service {
	return &Service{
		userRepository: userRepo,
		profileCache:   profileCache,
		logger:         logger,
	}
}

func profileKey(userID string) string {
	return constants.RedisPrefixProfile + userID
}

// # Profile Management

/*
GetProfile retrieves the owner view of an account.

Description: Served from the profile cache when possible; a miss loads the
account from the store and populates the cache.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Profile: The owner view
  - error: apperr.UserNotFound or storage failures
*/
func (service *Service) GetProfile(requestContext context.Context, userID string) (*Profile, error) {
	return cache.GetOrLoad(requestContext, service.profileCache, profileKey(userID), func(loadContext context.Context) (*Profile, error) {
		user, err := service.userRepository.FindByID(loadContext, userID)
		if err != nil {
			return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
		}
		if user == nil {
			return nil, apperr.UserNotFound()
		}
		return NewProfile(user), nil
	})
}

/*
UpdateProfile applies a partial set of changes to an account's profile.

Description: Every provided field is validated before anything is written.
Nickname must be 2 to 20 characters, country an ISO alpha-2 code (upper-cased),
language one of es, pt, en, avatar an http(s) URL.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *Profile: The updated owner view
  - error: apperr.CodeValidation, apperr.UserNotFound or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*Profile, error) {

	// ── 1. Validate the delta ───────────────────────────────────────────
	validator := &validate.Validator{}

	var nickname, country string
	if input.Nickname != nil {
		nickname = strings.TrimSpace(*input.Nickname)
		validator.
			MinLen(identity.FieldNickname, nickname, identity.NicknameMinLength).
			MaxLen(identity.FieldNickname, nickname, identity.NicknameMaxLength)
	}

	if input.Country != nil {
		country = strings.ToUpper(strings.TrimSpace(*input.Country))
		validator.CountryCode(identity.FieldCountry, country)
	}

	if input.PreferredLanguage != nil {
		validator.OneOf(identity.FieldPreferredLanguage, *input.PreferredLanguage, identity.Languages()...)
	}

	if avatar := pointer.Val(input.AvatarURL); avatar != "" {
		validator.
			MaxLen(identity.FieldAvatarURL, avatar, identity.AvatarURLMaxLength).
			URL(identity.FieldAvatarURL, avatar)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Load ─────────────────────────────────────────────────────────
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}
	if user == nil {
		return nil, apperr.UserNotFound()
	}

	// ── 3. Apply ────────────────────────────────────────────────────────
	if input.Nickname != nil {
		user.Nickname = nickname
	}
	if input.Country != nil {
		user.Country = country
	}
	if input.PreferredLanguage != nil {
		user.PreferredLanguage = identity.Language(*input.PreferredLanguage)
	}
	if input.AvatarURL != nil {
		user.AvatarURL = pointer.NilIfZero(strings.TrimSpace(*input.AvatarURL))
	}

	// ── 4. Persist ──────────────────────────────────────────────────────
	updated, err := service.userRepository.Update(context, user)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.InvalidateProfile(context, userID)
	service.logger.InfoContext(context, "user_profile_updated", slog.String("user_id", userID))

	return NewProfile(updated), nil
}

// # Administration

/*
ListAccounts returns one page of accounts, newest first.

Returns:
  - []*AdminAccount: The page
  - pagination.Meta: Page metadata
  - error: Storage failures
*/
func (service *Service) ListAccounts(context context.Context, params pagination.Params) ([]*AdminAccount, pagination.Meta, error) {
	users, total, err := service.userRepository.List(context, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_failed: %w", err)
	}

	return slice.Map(users, NewAdminAccount), pagination.NewMeta(params, total), nil
}

// GetAccount returns the administrative view of a single account.
func (service *Service) GetAccount(context context.Context, userID string) (*AdminAccount, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_account_failed: %w", err)
	}
	if user == nil {
		return nil, apperr.UserNotFound()
	}
	return NewAdminAccount(user), nil
}

/*
SetActive activates or deactivates an account.

Description: A deactivated account is rejected at the authorization gate on
its next request, even with an unexpired access token.

Parameters:
  - context: context.Context
  - userID: string
  - active: bool

Returns:
  - *AdminAccount: The updated account
  - error: apperr.UserNotFound or storage failures
*/
func (service *Service) SetActive(context context.Context, userID string, active bool) (*AdminAccount, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_set_active_failed: %w", err)
	}
	if user == nil {
		return nil, apperr.UserNotFound()
	}

	if active {
		user.Activate()
	} else {
		user.Deactivate()
	}

	updated, err := service.userRepository.Update(context, user)
	if err != nil {
		return nil, fmt.Errorf("account_service_set_active_failed: %w", err)
	}

	service.InvalidateProfile(context, userID)
	service.logger.WarnContext(context, "user_account_status_changed",
		slog.String("user_id", userID),
		slog.Bool("active", active),
	)

	return NewAdminAccount(updated), nil
}

// InvalidateProfile drops the cached profile. Failures are logged; the entry expires on its own.
func (service *Service) InvalidateProfile(context context.Context, userID string) {
	if err := service.profileCache.Delete(context, profileKey(userID)); err != nil {
		service.logger.WarnContext(context, "cache_invalidate_failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}
