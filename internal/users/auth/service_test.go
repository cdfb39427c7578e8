// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/sec"
	"github.com/hallyulatino/api/internal/users/auth"
	"github.com/hallyulatino/api/internal/users/identity"
	"github.com/hallyulatino/api/internal/users/identity/identitytest"
)

// # Fakes

type memoryTokens struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{entries: make(map[string]string)}
}

func (tokens *memoryTokens) Set(_ context.Context, token, userID string, _ time.Duration) error {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()
	tokens.entries[token] = userID
	return nil
}

func (tokens *memoryTokens) Consume(_ context.Context, token string) (string, error) {
	tokens.mu.Lock()
	defer tokens.mu.Unlock()
	userID, ok := tokens.entries[token]
	if !ok {
		return "", apperr.NotFound("Token")
	}
	delete(tokens.entries, token)
	return userID, nil
}

type recordingProfiles struct {
	mu          sync.Mutex
	invalidated []string
}

func (profiles *recordingProfiles) InvalidateProfile(_ context.Context, userID string) {
	profiles.mu.Lock()
	defer profiles.mu.Unlock()
	profiles.invalidated = append(profiles.invalidated, userID)
}

// lateDuplicateStore loses the register race: the email looks free, then the unique index rejects the insert.
type lateDuplicateStore struct {
	*identitytest.MemoryStore
}

func (lateDuplicateStore) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }

func (lateDuplicateStore) Create(context.Context, *identity.User) (*identity.User, error) {
	return nil, fmt.Errorf("identity_create_failed: %w", apperr.EmailAlreadyExists())
}

type recordingNotifier struct {
	verification map[string]string
	reset        map[string]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{verification: map[string]string{}, reset: map[string]string{}}
}

func (notifier *recordingNotifier) SendVerification(_ context.Context, email, token string) error {
	notifier.verification[email] = token
	return nil
}

func (notifier *recordingNotifier) SendPasswordReset(_ context.Context, email, token string) error {
	notifier.reset[email] = token
	return nil
}

// # Fixture

type fixture struct {
	service  *auth.Service
	store    *identitytest.MemoryStore
	tokens   *sec.TokenService
	notifier *recordingNotifier
	profiles *recordingProfiles
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := identitytest.NewMemoryStore()
	return newFixtureWith(t, store, store)
}

func newFixtureWith(t *testing.T, repository identity.UserRepository, store *identitytest.MemoryStore) *fixture {
	t.Helper()

	tokens, err := sec.NewTokenService(sec.TokenConfig{
		SecretKey:       "test-secret-key-with-enough-entropy",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	notifier := newRecordingNotifier()
	profiles := &recordingProfiles{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service:  auth.NewService(repository, tokens, newMemoryTokens(), newMemoryTokens(), notifier, profiles, logger),
		store:    store,
		tokens:   tokens,
		notifier: notifier,
		profiles: profiles,
	}
}

func validRegistration() auth.RegisterInput {
	return auth.RegisterInput{
		Email:             "newuser@example.com",
		Password:          "SecureP@ss1",
		Nickname:          "NewUser",
		Country:           "MX",
		PreferredLanguage: "es",
	}
}

func (f *fixture) register(t *testing.T) *auth.RegisterResult {
	t.Helper()
	result, err := f.service.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	return result
}

// # Registration

/*
TestRegister_Success persists exactly one account and returns its projection.
*/
func TestRegister_Success(t *testing.T) {
	f := newFixture(t)

	result := f.register(t)

	assert.Equal(t, 1, f.store.CreateCalls)
	assert.Equal(t, "newuser@example.com", result.Email)
	assert.Equal(t, "NewUser", result.Nickname)
	assert.NotEmpty(t, result.ID)

	stored, err := f.store.FindByID(context.Background(), result.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.IsActive)
	assert.False(t, stored.IsVerified)
	assert.Equal(t, sec.RoleUser, stored.Role)
	require.True(t, stored.HasPassword())
	assert.NotEqual(t, "SecureP@ss1", *stored.PasswordHash)
	assert.Contains(t, f.notifier.verification, "newuser@example.com")
}

/*
TestRegister_NormalizesInput lower-cases the email and upper-cases the country.
*/
func TestRegister_NormalizesInput(t *testing.T) {
	f := newFixture(t)

	input := validRegistration()
	input.Email = "  NewUser@Example.COM "
	input.Country = "mx"
	input.PreferredLanguage = ""

	result, err := f.service.Register(context.Background(), input)
	require.NoError(t, err)

	stored, _ := f.store.FindByID(context.Background(), result.ID)
	assert.Equal(t, "newuser@example.com", stored.Email)
	assert.Equal(t, "MX", stored.Country)
	assert.Equal(t, identity.DefaultLanguage, stored.PreferredLanguage)
}

/*
TestRegister_DuplicateEmail rejects a taken email without a second write.
*/
func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	_, err := f.service.Register(context.Background(), validRegistration())

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeEmailAlreadyExists))
	assert.Equal(t, 1, f.store.CreateCalls)
}

/*
TestRegister_Rejections covers input failures that never reach the store.
*/
func TestRegister_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*auth.RegisterInput)
		code   string
	}{
		{"malformed_email", func(in *auth.RegisterInput) { in.Email = "not-an-email" }, apperr.CodeInvalidEmail},
		{"weak_password", func(in *auth.RegisterInput) { in.Password = "short" }, apperr.CodeWeakPassword},
		{"no_symbol", func(in *auth.RegisterInput) { in.Password = "SecurePass1" }, apperr.CodeWeakPassword},
		{"short_nickname", func(in *auth.RegisterInput) { in.Nickname = "A" }, apperr.CodeValidation},
		{"long_nickname", func(in *auth.RegisterInput) { in.Nickname = strings.Repeat("n", 21) }, apperr.CodeValidation},
		{"bad_country", func(in *auth.RegisterInput) { in.Country = "MEX" }, apperr.CodeValidation},
		{"bad_language", func(in *auth.RegisterInput) { in.PreferredLanguage = "fr" }, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			input := validRegistration()
			tt.mutate(&input)

			_, err := f.service.Register(context.Background(), input)

			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
			assert.Zero(t, f.store.CreateCalls)
		})
	}
}

// # Login

/*
TestLogin_Success issues a verifiable token pair and the account summary.
*/
func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t)

	result, err := f.service.Login(context.Background(), auth.LoginInput{
		Email:    "NEWUSER@example.com",
		Password: "SecureP@ss1",
	})
	require.NoError(t, err)

	assert.Equal(t, registered.ID, result.User.ID)
	assert.Equal(t, "bearer", result.Tokens.TokenType)
	assert.Equal(t, 1800, result.Tokens.ExpiresIn)

	access, err := f.tokens.VerifyAccessToken(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, access.Subject)
	assert.Equal(t, "newuser@example.com", access.Email)
	assert.Equal(t, "user", access.Role)

	refresh, err := f.tokens.VerifyRefreshToken(result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, refresh.Subject)
}

/*
TestLogin_UniformFailure ensures every credential failure is indistinguishable.
*/
func TestLogin_UniformFailure(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t)

	inactive, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email: "inactive@example.com", Password: "SecureP@ss1", Nickname: "Sleepy", Country: "BR",
	})
	require.NoError(t, err)
	account, _ := f.store.FindByID(context.Background(), inactive.ID)
	account.Deactivate()
	f.store.Put(account)

	external, err := identity.NewEmail("oauth@example.com")
	require.NoError(t, err)
	provider, providerID := "google", "g-123"
	oauthUser, err := identity.NewUser(identity.NewUserInput{
		Email: external, Nickname: "Social", Country: "AR", OAuthProvider: &provider, OAuthID: &providerID,
	})
	require.NoError(t, err)
	f.store.Put(oauthUser)

	tests := []struct {
		name  string
		input auth.LoginInput
	}{
		{"wrong_password", auth.LoginInput{Email: "newuser@example.com", Password: "WrongP@ss1"}},
		{"unknown_email", auth.LoginInput{Email: "nobody@example.com", Password: "SecureP@ss1"}},
		{"malformed_email", auth.LoginInput{Email: "nobody", Password: "SecureP@ss1"}},
		{"deactivated", auth.LoginInput{Email: "inactive@example.com", Password: "SecureP@ss1"}},
		{"no_password", auth.LoginInput{Email: "oauth@example.com", Password: "SecureP@ss1"}},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Login(context.Background(), tt.input)

			require.Error(t, err)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperr.CodeInvalidCredentials, appErr.Code)
			assert.NotContains(t, strings.ToLower(appErr.Message), "not found")
			assert.NotContains(t, strings.ToLower(appErr.Message), "does not exist")
			messages = append(messages, appErr.Message)
		})
	}

	for _, message := range messages {
		assert.Equal(t, messages[0], message)
	}
	assert.NotEmpty(t, registered.ID)
}

// # Refresh

/*
TestRefreshToken_Success returns a new pair for an active account.
*/
func TestRefreshToken_Success(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	login, err := f.service.Login(context.Background(), auth.LoginInput{Email: "newuser@example.com", Password: "SecureP@ss1"})
	require.NoError(t, err)

	pair, err := f.service.RefreshToken(context.Background(), login.Tokens.RefreshToken)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)
}

/*
TestRefreshToken_Rejections covers missing subjects, wrong token types and expiry.
*/
func TestRefreshToken_Rejections(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t)

	t.Run("missing_account", func(t *testing.T) {
		token, err := f.tokens.CreateRefreshToken("0190a6c8-0000-7000-8000-000000000000")
		require.NoError(t, err)

		_, err = f.service.RefreshToken(context.Background(), token)
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
	})

	t.Run("access_token_presented", func(t *testing.T) {
		token, err := f.tokens.CreateAccessToken(registered.ID, registered.Email, "user")
		require.NoError(t, err)

		_, err = f.service.RefreshToken(context.Background(), token)
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := f.service.RefreshToken(context.Background(), "not.a.token")
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
	})

	t.Run("expired", func(t *testing.T) {
		past := f.tokens.WithClock(func() time.Time { return time.Now().Add(-30 * 24 * time.Hour) })
		token, err := past.CreateRefreshToken(registered.ID)
		require.NoError(t, err)

		_, err = f.service.RefreshToken(context.Background(), token)
		assert.True(t, apperr.HasCode(err, apperr.CodeTokenExpired))
	})

	t.Run("deactivated", func(t *testing.T) {
		token, err := f.tokens.CreateRefreshToken(registered.ID)
		require.NoError(t, err)

		account, _ := f.store.FindByID(context.Background(), registered.ID)
		account.Deactivate()
		f.store.Put(account)

		_, err = f.service.RefreshToken(context.Background(), token)
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
	})
}

// # Verification & Recovery

/*
TestVerifyEmail_ConsumesToken marks the account verified and rejects reuse.
*/
func TestVerifyEmail_ConsumesToken(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t)

	token := f.notifier.verification["newuser@example.com"]
	require.NotEmpty(t, token)

	require.NoError(t, f.service.VerifyEmail(context.Background(), token))

	stored, _ := f.store.FindByID(context.Background(), registered.ID)
	assert.True(t, stored.IsVerified)
	assert.Equal(t, []string{registered.ID}, f.profiles.invalidated)

	err := f.service.VerifyEmail(context.Background(), token)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
}

/*
TestForgotPassword_Silent succeeds for unknown emails without dispatching anything.
*/
func TestForgotPassword_Silent(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.service.ForgotPassword(context.Background(), "ghost@example.com"))
	assert.Empty(t, f.notifier.reset)

	err := f.service.ForgotPassword(context.Background(), "ghost")
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidEmail))
}

/*
TestResetPassword_Flow replaces the password through a reset token.
*/
func TestResetPassword_Flow(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	require.NoError(t, f.service.ForgotPassword(context.Background(), "newuser@example.com"))
	token := f.notifier.reset["newuser@example.com"]
	require.NotEmpty(t, token)

	err := f.service.ResetPassword(context.Background(), token, "weak")
	assert.True(t, apperr.HasCode(err, apperr.CodeWeakPassword))

	require.NoError(t, f.service.ResetPassword(context.Background(), token, "Renewed#Pass2"))

	_, err = f.service.Login(context.Background(), auth.LoginInput{Email: "newuser@example.com", Password: "SecureP@ss1"})
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))

	_, err = f.service.Login(context.Background(), auth.LoginInput{Email: "newuser@example.com", Password: "Renewed#Pass2"})
	assert.NoError(t, err)

	err = f.service.ResetPassword(context.Background(), token, "Another#Pass3")
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
}

/*
TestChangePassword requires the current password.
*/
func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t)
	ctx := context.Background()

	err := f.service.ChangePassword(ctx, registered.ID, "WrongP@ss1", "Renewed#Pass2")
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))

	err = f.service.ChangePassword(ctx, "0190a6c8-0000-7000-8000-000000000000", "SecureP@ss1", "Renewed#Pass2")
	assert.True(t, apperr.HasCode(err, apperr.CodeUserNotFound))

	require.NoError(t, f.service.ChangePassword(ctx, registered.ID, "SecureP@ss1", "Renewed#Pass2"))

	_, err = f.service.Login(ctx, auth.LoginInput{Email: "newuser@example.com", Password: "Renewed#Pass2"})
	assert.NoError(t, err)
}

/*
TestRegister_StoreFailure wraps unexpected storage errors.
*/
func TestRegister_StoreFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("connection refused")
	f.store.Err = boom

	_, err := f.service.Register(context.Background(), validRegistration())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

/*
TestRegister_LateDuplicate maps a unique-index rejection during the insert to EMAIL_ALREADY_EXISTS.
*/
func TestRegister_LateDuplicate(t *testing.T) {
	store := identitytest.NewMemoryStore()
	f := newFixtureWith(t, lateDuplicateStore{store}, store)

	_, err := f.service.Register(context.Background(), validRegistration())

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeEmailAlreadyExists, appErr.Code)
	assert.Empty(t, f.notifier.verification)
}

/*
TestResetPassword_SingleUse lets only one of two concurrent resets with the same token win.
*/
func TestResetPassword_SingleUse(t *testing.T) {
	f := newFixture(t)
	registered := f.register(t)

	require.NoError(t, f.service.ForgotPassword(context.Background(), "newuser@example.com"))
	token := f.notifier.reset["newuser@example.com"]
	require.NotEmpty(t, token)

	passwords := []string{"Renewed#Pass2", "Another#Pass3"}
	results := make([]error, len(passwords))

	var wg sync.WaitGroup
	for i, password := range passwords {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = f.service.ResetPassword(context.Background(), token, password)
		}()
	}
	wg.Wait()

	var winners int
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials), "got %v", err)
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, []string{registered.ID}, f.profiles.invalidated)
}

/*
TestDummyHash_IsRealBcrypt keeps failed logins on the full bcrypt cost.
*/
func TestDummyHash_IsRealBcrypt(t *testing.T) {
	cost, err := bcrypt.Cost([]byte(auth.DummyHash()))
	require.NoError(t, err)
	assert.Equal(t, sec.HashCost, cost)
}
