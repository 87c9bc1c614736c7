// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on username/fingerprint collision, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByFingerprint returns the account whose email fingerprint matches.

		Parameters:
		  - context: context.Context
		  - fingerprint: string (SHA-256 hex digest of the normalized email)

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByFingerprint(context context.Context, fingerprint string) (*User, error)

	/*
		ConsumeVerificationToken atomically flips the matching account to
		verified and clears its token in a single conditional update, so two
		concurrent calls with the same token cannot both succeed.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: ID of the verified account
		  - error: apperr.NotFound if the token is absent or already consumed
	*/
	ConsumeVerificationToken(context context.Context, token string) (string, error)

	/*
		SetRefreshToken overwrites the account's stored refresh token. Any
		previously stored token is superseded and becomes invalid.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	SetRefreshToken(context context.Context, userID, token string) error

	/*
		ClearRefreshToken removes the account's stored refresh token. Clearing
		an already-absent token is not an error.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearRefreshToken(context context.Context, userID string) error
}

// # Volatile Data Access

// LoginThrottle defines the contract for counting failed login attempts.
type LoginThrottle interface {

	/*
		Hit increments the attempt counter for a key, starting the expiry
		window on the first hit.

		Parameters:
		  - context: context.Context
		  - key: string (normalized username)
		  - window: time.Duration

		Returns:
		  - int64: Attempt count within the current window
		  - error: Counter failures
	*/
	Hit(context context.Context, key string, window time.Duration) (int64, error)

	/*
		Reset clears the attempt counter after a successful login.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - error: Deletion failures
	*/
	Reset(context context.Context, key string) error
}
