// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tabletoptracker/backend/internal/mail"
	"github.com/tabletoptracker/backend/internal/platform/apperr"
	"github.com/tabletoptracker/backend/internal/platform/sec"
	"github.com/tabletoptracker/backend/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating and verifying security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)

	// GenerateRefreshToken creates a signed refresh JWT carrying only the user ID.
	GenerateRefreshToken(userID string, timeToLive time.Duration) (string, error)

	// VerifyRefreshToken validates a refresh JWT and returns the embedded user ID.
	VerifyRefreshToken(token string) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed before merging.
type Service struct {
	userRepository UserRepository
	loginThrottle  LoginThrottle
	tokenProvider  TokenProvider
	emailCodec     *sec.Codec
	mailSender     mail.Sender
	baseURL        string
	logger         *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	throttle LoginThrottle,
	tokenProv TokenProvider,
	codec *sec.Codec,
	sender mail.Sender,
	baseURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		loginThrottle:  throttle,
		tokenProvider:  tokenProv,
		emailCodec:     codec,
		mailSender:     sender,
		baseURL:        baseURL,
		logger:         logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string // Empty defaults to "player".
}

/*
Register validates, hashes, encrypts, and persists a brand new user account.

Description: Deep-enrollment of a new member. The email is encrypted before it
ever reaches storage and its fingerprint enforces uniqueness; the password is
hashed; a single-use verification token is generated and handed to the mail
collaborator as a fire-and-forget side effect.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity (Email populated transiently, never the hash)
  - error: Conflict (if identity exists), validation, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// 1. Resolve the role. Absent defaults to player; present must be a
	// member of the closed enum.
	role := sec.RolePlayer
	if input.Role != "" {
		role = sec.UserRole(input.Role)
		if !role.IsValid() {
			return nil, apperr.ValidationError("Role must be one of admin, mod, dm, player")
		}
	}

	// 2. Verify email uniqueness via the fingerprint. Return a client-safe Conflict error.
	fingerprint := sec.Fingerprint(input.Email)
	if _, err := service.userRepository.FindByFingerprint(context, fingerprint); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// 3. Verify username uniqueness. Return a client-safe Conflict error.
	if _, err := service.userRepository.FindByUsername(context, input.Username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// 4. Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// 5. Encrypt the email. Explicit encrypt-then-persist ordering keeps the
	// plaintext out of every storage call.
	encryptedEmail, err := service.emailCodec.Encrypt(input.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_email_encrypt_failed: %w", err)
	}

	// 6. Generate the single-use verification token
	verificationToken, err := sec.GenerateSecureToken(VerificationTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_verification_token_failed: %w", err)
	}

	// 7. Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:                uuid.New(),
		Username:          input.Username,
		EmailEncrypted:    encryptedEmail,
		EmailFingerprint:  fingerprint,
		PasswordHash:      hashedPassword,
		Role:              role,
		IsVerified:        false,
		VerificationToken: verificationToken,
	}

	// 8. Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	// 9. Hand the verification link to the mail collaborator. Fire-and-forget:
	// registration has already committed, a delivery failure is only logged.
	service.sendVerificationMail(input.Email, verificationToken)

	user.Email = input.Email
	return user, nil
}

// sendVerificationMail dispatches the verification email asynchronously.
func (service *Service) sendVerificationMail(recipient, token string) {
	link := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", service.baseURL, token)

	go func() {
		sendContext, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := service.mailSender.SendVerification(sendContext, recipient, link); err != nil {
			service.logger.Error("verification_email_send_failed",
				slog.String("error", err.Error()),
			)
		}
	}()
}

/*
VerifyEmail confirms a user's email address using a single-use token.

Description: Delegates to the store's atomic consume primitive. The second of
two concurrent calls with the same token fails with NotFound once the token
is cleared; there is no window where both succeed.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: apperr.NotFound ("invalid or expired") or storage errors
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {
	if _, err := service.userRepository.ConsumeVerificationToken(context, token); err != nil {
		return err
	}
	return nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues a fresh access/refresh token pair.

Description: Verifies identity with constant-time password comparison, gates
on email verification, and persists the new refresh token onto the user
record, superseding any previous session for that user.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session credentials
  - error: Unauthorized, RateLimited, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// 1. Count the attempt. A throttle outage must not lock out logins, so
	// counter errors are logged and ignored.
	attempts, err := service.loginThrottle.Hit(context, input.Username, LoginAttemptWindow)
	if err != nil {
		service.logger.Warn("login_throttle_unavailable", slog.String("error", err.Error()))
	} else if attempts > MaxLoginAttempts {
		return nil, apperr.RateLimited(int(LoginAttemptWindow / time.Second))
	}

	// 2. Look up the account. Generic message to prevent username enumeration.
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// 3. Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// 4. Unverified accounts cannot log in, even with correct credentials
	if !user.IsVerified {
		return nil, apperr.Unauthorized("Email address has not been verified")
	}

	// 5. Generate short-lived Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	// 6. Generate long-lived Refresh Token
	refreshToken, err := service.tokenProvider.GenerateRefreshToken(user.ID, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// 7. Persist the refresh token onto the user record. A failure here fails
	// the whole login: no partial success where an access token exists but the
	// refresh token was never stored.
	if err := service.userRepository.SetRefreshToken(context, user.ID, refreshToken); err != nil {
		return nil, err
	}

	// 8. Successful login resets the throttle window. Best effort.
	_ = service.loginThrottle.Reset(context, input.Username)

	// 9. Decrypt the email for the response profile. A decryption failure is
	// an internal integrity fault, never detailed to the caller.
	email, err := service.emailCodec.Decrypt(user.EmailEncrypted)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_email_decrypt_failed: %w", err))
	}
	user.Email = email

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: time.Now().Add(RefreshTokenTTL),
		User:                  user,
	}, nil
}

// # Session Management

/*
RotateAccessToken mints a fresh access token from a valid refresh token.

Description: Verifies the refresh token signature and expiry, then checks it
against the token currently stored on the user record. A mismatch means the
token was revoked by logout or superseded by a newer login. The refresh token
itself is left unchanged.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - string: New access token
  - error: InvalidToken, RevokedToken, or storage errors
*/
func (service *Service) RotateAccessToken(context context.Context, refreshToken string) (string, error) {

	// 1. Verify the refresh token signature and expiry
	userID, err := service.tokenProvider.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", apperr.InvalidToken("Invalid or expired refresh token")
	}

	// 2. Load the user the token claims to belong to
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return "", apperr.InvalidToken("Invalid or expired refresh token")
	}

	// 3. Revocation check: the presented token must equal the stored one.
	// Covers logout (cleared) and supersession by a newer login (overwritten).
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return "", apperr.RevokedToken("Refresh token has been revoked")
	}

	// 4. Issue a fresh access token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_rotate_access_token_failed: %w", err)
	}

	return accessToken, nil
}

/*
Logout revokes the user's stored refresh token.

Description: Idempotent. An invalid, expired, or already-revoked token is
treated as a successful logout; only a storage failure on the clear itself
surfaces as an error.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	// Resolve the owning user. An unverifiable token means the session is
	// already gone; logout succeeds.
	userID, err := service.tokenProvider.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil
	}

	if err := service.userRepository.ClearRefreshToken(context, userID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Profile Resolution

/*
CurrentUser returns the account profile for an authenticated user ID.

Description: Resolves the full record and decrypts the email for display.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated profile with transient Email
  - error: NotFound or decryption faults
*/
func (service *Service) CurrentUser(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	email, err := service.emailCodec.Decrypt(user.EmailEncrypted)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_email_decrypt_failed: %w", err))
	}
	user.Email = email

	return user, nil
}
