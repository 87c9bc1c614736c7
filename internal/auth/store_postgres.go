// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tabletoptracker/backend/internal/platform/apperr"
	"github.com/tabletoptracker/backend/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the shared SELECT list for account hydration. The token
// columns are nullable in the schema; COALESCE keeps the Go side on plain
// strings with "" meaning absent.
const userColumns = `
	id, username, emailencrypted, emailfingerprint, passwordhash, role, isverified,
	COALESCE(verificationtoken, ''), COALESCE(refreshtoken, ''), createdat, updatedat`

// scanUser hydrates a User from a row produced by userColumns.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.EmailEncrypted,
		&user.EmailFingerprint,
		&user.PasswordHash,
		&user.Role,
		&user.IsVerified,
		&user.VerificationToken,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided. Unique-index violations on username or emailfingerprint are
mapped to apperr.Conflict, which closes the check-then-insert race left open by
the service layer's pre-checks.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, emailencrypted, emailfingerprint, passwordhash, role, isverified,
			verificationtoken, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.EmailEncrypted,
		user.EmailFingerprint,
		user.PasswordHash,
		user.Role,
		user.IsVerified,
		user.VerificationToken,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Username or email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE id = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup by username for authentication.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE username = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
FindByFingerprint retrieves a user record by their unique email fingerprint.

Description: Uniqueness lookup without ever querying the plaintext email.

Parameters:
  - context: context.Context
  - fingerprint: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByFingerprint(context context.Context, fingerprint string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users.account WHERE emailfingerprint = $1"

	user, err := scanUser(repository.pool.QueryRow(context, query, fingerprint))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_fingerprint_failed: %w", err)
	}

	return user, nil
}

/*
ConsumeVerificationToken flips the matching account to verified and clears the
token in one conditional UPDATE.

Description: The WHERE clause keys on the current token value and the
unverified state, so the database row is the serialization point: of two
concurrent calls with the same token, exactly one matches a row.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: ID of the verified account
  - error: apperr.NotFound if no row matched, or execution errors
*/
func (repository *PostgresUserRepository) ConsumeVerificationToken(context context.Context, token string) (string, error) {
	const query = `
		UPDATE users.account
		SET isverified = TRUE, verificationtoken = NULL, updatedat = NOW()
		WHERE verificationtoken = $1 AND isverified = FALSE
		RETURNING id`

	var userID string
	err := repository.pool.QueryRow(context, query, token).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound("Verification token is invalid or expired")
		}
		return "", fmt.Errorf("postgres_user_repo_consume_verification_failed: %w", err)
	}

	return userID, nil
}

/*
SetRefreshToken overwrites the account's stored refresh token.

Description: Single-session refresh semantics: a new login supersedes the
previous refresh token by overwriting it.

Parameters:
  - context: context.Context
  - userID: string
  - token: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetRefreshToken(context context.Context, userID, token string) error {
	const query = "UPDATE users.account SET refreshtoken = $2, updatedat = NOW() WHERE id = $1"

	_, err := repository.pool.Exec(context, query, userID, token)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_refresh_failed: %w", err)
	}

	return nil
}

/*
ClearRefreshToken removes the account's stored refresh token.

Description: Idempotent logout support. Clearing an absent token matches zero
bytes of change and is still a success.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ClearRefreshToken(context context.Context, userID string) error {
	const query = "UPDATE users.account SET refreshtoken = NULL, updatedat = NOW() WHERE id = $1"

	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_clear_refresh_failed: %w", err)
	}

	return nil
}
