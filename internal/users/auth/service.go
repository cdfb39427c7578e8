// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the authentication use cases.

It handles registration, credential login, stateless token refresh, email
verification and password recovery on top of the identity package.

Architecture:

  - Service: Orchestrates business logic (Register, Login, RefreshToken, recovery flows).
  - Repository: identity.UserRepository for accounts, Redis for one-time tokens.
  - Security: bcrypt hashes via identity.Password and HMAC-signed JWTs via sec.TokenService.
  - Transport: Handler only decodes bodies and checks presence. Tokens travel in the JSON body.

# Information Hiding

Unknown email, wrong password, deactivated account and password-less accounts
all fail login with the identical apperr.InvalidCredentials value. The concrete
reason only reaches the server log.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/constants"
	"github.com/hallyulatino/api/internal/platform/sec"
	"github.com/hallyulatino/api/internal/platform/validate"
	"github.com/hallyulatino/api/internal/users/identity"
)

// # Contracts & Types

// TokenIssuer defines the contract for minting and checking bearer tokens.
type TokenIssuer interface {
	CreateAccessToken(userID, email, role string) (string, error)
	CreateRefreshToken(userID string) (string, error)
	VerifyRefreshToken(token string) (*sec.Claims, error)
	AccessTokenTTLSeconds() int
}

// ProfileInvalidator drops the cached profile of an account after this service writes to it.
type ProfileInvalidator interface {
	InvalidateProfile(context context.Context, userID string)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository              identity.UserRepository
	tokenIssuer                 TokenIssuer
	resetTokenRepository        OneTimeTokenRepository
	verificationTokenRepository OneTimeTokenRepository
	notifier                    Notifier
	profiles                    ProfileInvalidator
	logger                      *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo identity.UserRepository,
	tokenIssuer TokenIssuer,
	resetRepo OneTimeTokenRepository,
	verifyRepo OneTimeTokenRepository,
	notifier Notifier,
	profiles ProfileInvalidator,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:              userRepo,
		tokenIssuer:                 tokenIssuer,
		resetTokenRepository:        resetRepo,
		verificationTokenRepository: verifyRepo,
		notifier:                    notifier,
		profiles:                    profiles,
		logger:                      logger,
	}
}

// dummyHash is compared against when no real hash exists so every failed login costs one bcrypt run.
var dummyHash = sync.OnceValue(func() string {
	hash, err := sec.HashPassword("timing-equalizer-Aa1!")
	if err != nil {
		panic(fmt.Sprintf("auth: build timing hash: %v", err))
	}
	return hash
})

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email             string
	Password          string
	Nickname          string
	Country           string
	PreferredLanguage string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Email format, profile fields, email uniqueness and password
strength are all checked before the single store write. No token is issued;
the caller must log in separately.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *RegisterResult: public projection (id, email, nickname)
  - error: InvalidEmail, Validation, EmailAlreadyExists, WeakPassword or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*RegisterResult, error) {

	// ── 1. Email ─────────────────────────────────────────────────────────
	email, err := identity.NewEmail(input.Email)
	if err != nil {
		return nil, err
	}

	// ── 2. Profile fields ───────────────────────────────────────────────
	nickname := strings.TrimSpace(input.Nickname)
	country := strings.ToUpper(strings.TrimSpace(input.Country))
	language := input.PreferredLanguage
	if language == "" {
		language = string(identity.DefaultLanguage)
	}

	validator := &validate.Validator{}
	validator.
		Required(identity.FieldNickname, nickname).
		MinLen(identity.FieldNickname, nickname, identity.NicknameMinLength).
		MaxLen(identity.FieldNickname, nickname, identity.NicknameMaxLength).
		CountryCode(identity.FieldCountry, country).
		OneOf(identity.FieldPreferredLanguage, language, identity.Languages()...)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 3. Uniqueness ───────────────────────────────────────────────────
	exists, err := service.userRepository.ExistsByEmail(context, email.String())
	if err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}
	if exists {
		return nil, apperr.EmailAlreadyExists()
	}

	// ── 4. Password ─────────────────────────────────────────────────────
	password, err := identity.NewPassword(input.Password)
	if err != nil {
		return nil, err
	}

	// ── 5. Aggregate ────────────────────────────────────────────────────
	user, err := identity.NewUser(identity.NewUserInput{
		Email:             email,
		Nickname:          nickname,
		Country:           country,
		PreferredLanguage: identity.Language(language),
	})
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 6. Persist ──────────────────────────────────────────────────────
	created, err := service.userRepository.Create(context, user)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeEmailAlreadyExists) {
			return nil, apperr.EmailAlreadyExists()
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.logger.InfoContext(context, "auth_user_registered", slog.String("user_id", created.ID))

	// Verification mail is best effort; the account is usable without it.
	if err := service.sendVerification(context, created); err != nil {
		service.logger.WarnContext(context, "auth_verification_dispatch_failed",
			slog.String("user_id", created.ID),
			slog.Any("error", err),
		)
	}

	return &RegisterResult{
		ID:       created.ID,
		Email:    created.Email,
		Nickname: created.Nickname,
		Message:  MessageRegistered,
	}, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity with the static hash comparison (no strength
rules are re-applied) and mints one access and one refresh token.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: token pair and account summary
  - error: InvalidCredentials for every credential failure, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {

	// ── 1. Email ─────────────────────────────────────────────────────────
	email, err := identity.NewEmail(input.Email)
	if err != nil {
		return nil, service.rejectLogin(context, input.Password, "malformed_email", "")
	}

	// ── 2. Lookup ───────────────────────────────────────────────────────
	user, err := service.userRepository.FindByEmail(context, email.String())
	if err != nil {
		return nil, fmt.Errorf("auth_service_login_failed: %w", err)
	}
	if user == nil {
		return nil, service.rejectLogin(context, input.Password, "unknown_email", "")
	}

	// ── 3. Account state ────────────────────────────────────────────────
	if !user.CanLogin() {
		return nil, service.rejectLogin(context, input.Password, "inactive_account", user.ID)
	}
	if !user.HasPassword() {
		return nil, service.rejectLogin(context, input.Password, "no_password", user.ID)
	}

	// ── 4. Password ─────────────────────────────────────────────────────
	if !identity.VerifyHash(input.Password, *user.PasswordHash) {
		service.logger.WarnContext(context, "auth_login_rejected",
			slog.String("reason", "wrong_password"),
			slog.String("user_id", user.ID),
		)
		return nil, apperr.InvalidCredentials()
	}

	// ── 5. Tokens ───────────────────────────────────────────────────────
	tokens, err := service.issueTokens(user)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "auth_user_logged_in", slog.String("user_id", user.ID))

	return &LoginResult{User: summarize(user), Tokens: *tokens}, nil
}

// rejectLogin burns one bcrypt comparison, logs the reason and returns the uniform error.
func (service *Service) rejectLogin(context context.Context, plain, reason, userID string) error {
	identity.VerifyHash(plain, dummyHash())

	attributes := []any{slog.String("reason", reason)}
	if userID != "" {
		attributes = append(attributes, slog.String("user_id", userID))
	}
	service.logger.WarnContext(context, "auth_login_rejected", attributes...)

	return apperr.InvalidCredentials()
}

/*
RefreshToken exchanges a refresh token for a new token pair.

Description: The presented token stays valid until its own expiry; there is no
server-side revocation. Callers should keep the newest refresh token.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *TokenPair: freshly minted access and refresh tokens
  - error: TokenExpired, InvalidCredentials or internal failures
*/
func (service *Service) RefreshToken(context context.Context, refreshToken string) (*TokenPair, error) {

	// ── 1. Verify ───────────────────────────────────────────────────────
	claims, err := service.tokenIssuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.Subject == "" {
		return nil, apperr.InvalidCredentials()
	}

	// ── 2. Resolve ──────────────────────────────────────────────────────
	user, err := service.userRepository.FindByID(context, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_failed: %w", err)
	}

	if user == nil || !user.CanLogin() {
		service.logger.WarnContext(context, "auth_refresh_rejected", slog.String("user_id", claims.Subject))
		return nil, apperr.InvalidCredentials()
	}

	// ── 3. Rotate ───────────────────────────────────────────────────────
	return service.issueTokens(user)
}

func (service *Service) issueTokens(user *identity.User) (*TokenPair, error) {
	accessToken, err := service.tokenIssuer.CreateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_access_failed: %w", err)
	}

	refreshToken, err := service.tokenIssuer.CreateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_refresh_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constants.TokenTypeBearer,
		ExpiresIn:    service.tokenIssuer.AccessTokenTTLSeconds(),
	}, nil
}

// # Email Verification

// RequestEmailVerification issues a new verification token unless the address is already verified.
func (service *Service) RequestEmailVerification(context context.Context, user *identity.User) error {
	if user.IsVerified {
		return nil
	}

	if err := service.sendVerification(context, user); err != nil {
		return fmt.Errorf("auth_service_request_verification_failed: %w", err)
	}

	return nil
}

func (service *Service) sendVerification(context context.Context, user *identity.User) error {
	token, err := sec.GenerateSecureToken(VerificationTokenLength)
	if err != nil {
		return err
	}

	if err := service.verificationTokenRepository.Set(context, token, user.ID, VerificationTokenTTL); err != nil {
		return err
	}

	return service.notifier.SendVerification(context, user.Email, token)
}

/*
VerifyEmail confirms the address bound to a verification token.

Returns:
  - error: InvalidCredentials for an unknown or expired token, or internal failures
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {
	user, err := service.resolveOneTimeToken(context, service.verificationTokenRepository, token)
	if err != nil {
		return err
	}

	if !user.IsVerified {
		user.VerifyEmail()
		if _, err := service.userRepository.Update(context, user); err != nil {
			return fmt.Errorf("auth_service_verify_email_failed: %w", err)
		}
		service.profiles.InvalidateProfile(context, user.ID)
	}

	service.logger.InfoContext(context, "auth_email_verified", slog.String("user_id", user.ID))

	return nil
}

// # Password Recovery

/*
ForgotPassword starts a password reset.

Description: Succeeds silently for unknown, deactivated or password-less
accounts so the response never reveals whether an email is registered.

Returns:
  - error: InvalidEmail for malformed input, or internal failures
*/
func (service *Service) ForgotPassword(context context.Context, rawEmail string) error {
	email, err := identity.NewEmail(rawEmail)
	if err != nil {
		return err
	}

	user, err := service.userRepository.FindByEmail(context, email.String())
	if err != nil {
		return fmt.Errorf("auth_service_forgot_password_failed: %w", err)
	}

	if user == nil || !user.CanLogin() || !user.HasPassword() {
		service.logger.InfoContext(context, "auth_password_reset_skipped")
		return nil
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_forgot_password_failed: %w", err)
	}

	if err := service.resetTokenRepository.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return fmt.Errorf("auth_service_forgot_password_failed: %w", err)
	}

	if err := service.notifier.SendPasswordReset(context, user.Email, token); err != nil {
		return fmt.Errorf("auth_service_forgot_password_failed: %w", err)
	}

	service.logger.InfoContext(context, "auth_password_reset_requested", slog.String("user_id", user.ID))
	return nil
}

/*
ResetPassword replaces the password of the account bound to a reset token.

Returns:
  - error: WeakPassword, InvalidCredentials for an unusable token, or internal failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	password, err := identity.NewPassword(newPassword)
	if err != nil {
		return err
	}

	user, err := service.resolveOneTimeToken(context, service.resetTokenRepository, token)
	if err != nil {
		return err
	}

	if !user.CanLogin() {
		return apperr.InvalidCredentials()
	}

	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("auth_service_reset_password_failed: %w", err)
	}

	if _, err := service.userRepository.Update(context, user); err != nil {
		return fmt.Errorf("auth_service_reset_password_failed: %w", err)
	}

	service.profiles.InvalidateProfile(context, user.ID)
	service.logger.InfoContext(context, "auth_password_reset", slog.String("user_id", user.ID))

	return nil
}

/*
ChangePassword replaces the password of an authenticated account.

Returns:
  - error: UserNotFound, InvalidCredentials on a wrong current password, WeakPassword, or internal failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}
	if user == nil {
		return apperr.UserNotFound()
	}

	if !user.HasPassword() || !identity.VerifyHash(currentPassword, *user.PasswordHash) {
		return apperr.InvalidCredentials()
	}

	password, err := identity.NewPassword(newPassword)
	if err != nil {
		return err
	}

	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}

	if _, err := service.userRepository.Update(context, user); err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}

	service.profiles.InvalidateProfile(context, user.ID)
	service.logger.InfoContext(context, "auth_password_changed", slog.String("user_id", user.ID))
	return nil
}

// # Helpers

// resolveOneTimeToken redeems a token and loads its account. The token is spent
// before any other work, so a failure afterwards still requires a new one. Any
// miss is InvalidCredentials.
func (service *Service) resolveOneTimeToken(context context.Context, repository OneTimeTokenRepository, token string) (*identity.User, error) {
	if token == "" {
		return nil, apperr.InvalidCredentials()
	}

	userID, err := repository.Consume(context, token)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.InvalidCredentials()
		}
		return nil, fmt.Errorf("auth_service_token_lookup_failed: %w", err)
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_lookup_failed: %w", err)
	}
	if user == nil {
		return nil, apperr.InvalidCredentials()
	}

	return user, nil
}
