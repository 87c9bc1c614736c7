// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (5m) to minimize the impact of a leaked token.
	AccessTokenTTL = 5 * time.Minute

	// RefreshTokenTTL is the duration a refresh token remains valid.
	// Long-lived (7 days) to provide a good user experience.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// VerificationTokenLength is the byte length of the random email
	// verification token.
	VerificationTokenLength = 20

	// MaxLoginAttempts is the number of failed login attempts allowed per
	// username within LoginAttemptWindow before throttling kicks in.
	MaxLoginAttempts = 10

	// LoginAttemptWindow is the sliding window for the login throttle counter.
	LoginAttemptWindow = 15 * time.Minute
)
