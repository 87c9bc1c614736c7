// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletoptracker/backend/internal/mail"
	"github.com/tabletoptracker/backend/internal/platform/apperr"
	"github.com/tabletoptracker/backend/internal/platform/sec"
)

// # Test Doubles

// memoryUserRepository is an in-memory UserRepository mirroring the conditional
// update semantics of the Postgres implementation.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*User // keyed by ID
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*User)}
}

func (repo *memoryUserRepository) Create(_ context.Context, user *User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.users {
		if existing.Username == user.Username || existing.EmailFingerprint == user.EmailFingerprint {
			return apperr.Conflict("Username or email is already registered")
		}
	}

	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

func (repo *memoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if user, ok := repo.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByFingerprint(_ context.Context, fingerprint string) (*User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if user.EmailFingerprint == fingerprint {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) ConsumeVerificationToken(_ context.Context, token string) (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if !user.IsVerified && user.VerificationToken != "" && user.VerificationToken == token {
			user.IsVerified = true
			user.VerificationToken = ""
			return user.ID, nil
		}
	}
	return "", apperr.NotFound("Verification token is invalid or expired")
}

func (repo *memoryUserRepository) SetRefreshToken(_ context.Context, userID, token string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if user, ok := repo.users[userID]; ok {
		user.RefreshToken = token
	}
	return nil
}

func (repo *memoryUserRepository) ClearRefreshToken(_ context.Context, userID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if user, ok := repo.users[userID]; ok {
		user.RefreshToken = ""
	}
	return nil
}

// verificationTokenFor digs the pending token out of storage, standing in for
// the emailed link.
func (repo *memoryUserRepository) verificationTokenFor(username string) string {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if user.Username == username {
			return user.VerificationToken
		}
	}
	return ""
}

// memoryThrottle is an in-memory LoginThrottle.
type memoryThrottle struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemoryThrottle() *memoryThrottle {
	return &memoryThrottle{counts: make(map[string]int64)}
}

func (throttle *memoryThrottle) Hit(_ context.Context, key string, _ time.Duration) (int64, error) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	throttle.counts[key]++
	return throttle.counts[key], nil
}

func (throttle *memoryThrottle) Reset(_ context.Context, key string) error {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	delete(throttle.counts, key)
	return nil
}

// # Fixtures

func newTestService(t *testing.T) (*Service, *memoryUserRepository, *memoryThrottle) {
	t.Helper()

	tokens, err := sec.NewTokenService("access-secret-for-tests", "refresh-secret-for-tests", "tabletop-tracker.test")
	require.NoError(t, err)

	codec, err := sec.NewCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	repo := newMemoryUserRepository()
	throttle := newMemoryThrottle()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewService(repo, throttle, tokens, codec, mail.NewLogSender(logger), "https://api.tabletop-tracker.test", logger)
	return service, repo, throttle
}

func registerVerified(t *testing.T, service *Service, repo *memoryUserRepository, username, email, password string) *User {
	t.Helper()

	user, err := service.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	token := repo.verificationTokenFor(username)
	require.NotEmpty(t, token)
	require.NoError(t, service.VerifyEmail(context.Background(), token))

	return user
}

// # Registration

func TestRegister_CreatesUnverifiedUser(t *testing.T) {
	service, repo, _ := newTestService(t)

	user, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RolePlayer, user.Role, "role defaults to player")
	assert.False(t, user.IsVerified)
	assert.Equal(t, "alice@example.com", user.Email, "response carries the plaintext email")
	assert.NotEqual(t, "alice@example.com", user.EmailEncrypted, "storage only sees ciphertext")
	assert.NotContains(t, user.PasswordHash, "correct-horse")
	assert.NotEmpty(t, repo.verificationTokenFor("alice"))
}

func TestRegister_ExplicitRole(t *testing.T) {
	service, _, _ := newTestService(t)

	user, err := service.Register(context.Background(), RegisterInput{
		Username: "gm",
		Email:    "gm@example.com",
		Password: "correct-horse",
		Role:     "dm",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleDM, user.Role)
}

func TestRegister_UnknownRoleRejected(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "eve",
		Email:    "eve@example.com",
		Password: "correct-horse",
		Role:     "superuser",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestRegister_DuplicateEmailFingerprint(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	// Same address modulo case and whitespace fingerprints identically.
	_, err = service.Register(context.Background(), RegisterInput{
		Username: "alice2",
		Email:    "  Alice@Example.COM ",
		Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

// # Email Verification

func TestVerifyEmail_SingleUse(t *testing.T) {
	service, repo, _ := newTestService(t)

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	token := repo.verificationTokenFor("alice")
	require.NoError(t, service.VerifyEmail(context.Background(), token))

	// Second consumption of the same token must fail, not no-op-succeed.
	err = service.VerifyEmail(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	service, _, _ := newTestService(t)

	err := service.VerifyEmail(context.Background(), "deadbeef")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Login

func TestLogin_UnverifiedRejectedThenVerifiedSucceeds(t *testing.T) {
	service, repo, _ := newTestService(t)

	_, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verified")

	require.NoError(t, service.VerifyEmail(context.Background(), repo.verificationTokenFor("alice")))

	session, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "alice@example.com", session.User.Email)
}

func TestLogin_SameMessageForUnknownUserAndWrongPassword(t *testing.T) {
	service, repo, _ := newTestService(t)
	registerVerified(t, service, repo, "alice", "alice@example.com", "correct-horse")

	_, unknownErr := service.Login(context.Background(), LoginInput{Username: "nobody", Password: "whatever"})
	_, wrongErr := service.Login(context.Background(), LoginInput{Username: "alice", Password: "wrong"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error(), "identical wording prevents username enumeration")
	assert.Equal(t, 401, apperr.As(unknownErr).HTTPStatus)
}

func TestLogin_ThrottledAfterRepeatedFailures(t *testing.T) {
	service, repo, _ := newTestService(t)
	registerVerified(t, service, repo, "alice", "alice@example.com", "correct-horse")

	for i := 0; i < MaxLoginAttempts; i++ {
		_, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "wrong"})
		require.Error(t, err)
	}

	_, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, "RATE_LIMITED", apperr.As(err).Code)
}

func TestLogin_SuccessResetsThrottle(t *testing.T) {
	service, repo, throttle := newTestService(t)
	registerVerified(t, service, repo, "alice", "alice@example.com", "correct-horse")

	_, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "wrong"})
	require.Error(t, err)

	_, err = service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	assert.Zero(t, throttle.counts["alice"])
}

// # Refresh Token Lifecycle

func TestRotateAccessToken_IssuesFreshToken(t *testing.T) {
	service, repo, _ := newTestService(t)
	registerVerified(t, service, repo, "alice", "alice@example.com", "correct-horse")

	session, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	accessToken, err := service.RotateAccessToken(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEqual(t, session.AccessToken, accessToken)
}

func TestRotateAccessToken_GarbageRejected(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.RotateAccessToken(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, "INVALID_TOKEN", apperr.As(err).Code)
}

func TestRotateAccessToken_SupersededByNewerLogin(t *testing.T) {
	service, repo, _ := newTestService(t)
	registerVerified(t, service, repo, "alice", "alice@example.com", "correct-horse")

	first, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	second, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = service.RotateAccessToken(context.Background(), first.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "REVOKED_TOKEN", apperr.As(err).Code)

	_, err = service.RotateAccessToken(context.Background(), second.RefreshToken)
	require.NoError(t, err)
}

func TestLogout_RevokesAndIsIdempotent(t *testing.T) {
	service, repo, _ := newTestService(t)
	registerVerified(t, service, repo, "alice", "alice@example.com", "correct-horse")

	session, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), session.RefreshToken))
	require.NoError(t, service.Logout(context.Background(), session.RefreshToken), "repeat logout is not an error")
	require.NoError(t, service.Logout(context.Background(), "garbage"), "unverifiable token is a successful logout")

	_, err = service.RotateAccessToken(context.Background(), session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "REVOKED_TOKEN", apperr.As(err).Code)
}

// # Profile

func TestCurrentUser_DecryptsEmail(t *testing.T) {
	service, repo, _ := newTestService(t)
	created := registerVerified(t, service, repo, "alice", "alice@example.com", "correct-horse")

	user, err := service.CurrentUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.IsVerified)
}

// # End-to-End Scenario

func TestAuthLifecycle(t *testing.T) {
	service, repo, _ := newTestService(t)

	// 1. Register: success, unverified
	user, err := service.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "pw123-long-enough",
		Role:     "player",
	})
	require.NoError(t, err)
	require.False(t, user.IsVerified)

	// 2. Login before verification fails
	_, err = service.Login(context.Background(), LoginInput{Username: "alice", Password: "pw123-long-enough"})
	require.Error(t, err)

	// 3. Verify
	require.NoError(t, service.VerifyEmail(context.Background(), repo.verificationTokenFor("alice")))

	// 4. Login succeeds with a token pair
	session, err := service.Login(context.Background(), LoginInput{Username: "alice", Password: "pw123-long-enough"})
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.RefreshToken)

	// 5. Rotation mints a distinct access token
	rotated, err := service.RotateAccessToken(context.Background(), session.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, session.AccessToken, rotated)
}
