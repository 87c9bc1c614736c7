// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

/*
Package auth implements the user identity and access management layer.

It defines the core domain entity (User) and logic for registration,
email verification, authentication, and the refresh-token lifecycle.

# Architecture

This layer is the "Truth" of the system. The entity defined here has no
external dependencies and encapsulates all business rules related to user
identity. Email addresses are never persisted in plaintext: only the
AES-GCM ciphertext and a deterministic fingerprint reach storage.
*/
package auth

import (
	"time"

	"github.com/tabletoptracker/backend/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Tabletop Tracker community.
//
// Email is a transient field: the service layer decrypts EmailEncrypted into
// it for API responses and outbound mail, and it is never written to storage.
type User struct {
	ID               string       `json:"id"`
	Username         string       `json:"username"`
	Email            string       `json:"email,omitempty"`
	EmailEncrypted   string       `json:"-"` // AES-GCM ciphertext. Never exposed.
	EmailFingerprint string       `json:"-"` // SHA-256 digest for uniqueness lookups.
	PasswordHash     string       `json:"-"` // Explicitly omitted from JSON for security.
	Role             sec.UserRole `json:"role"`
	IsVerified       bool         `json:"is_verified"`
	VerificationToken string      `json:"-"` // Single-use. Cleared on successful verification.
	RefreshToken     string       `json:"-"` // At most one valid refresh token per user.
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldRole        = "role"
	FieldToken       = "token"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
	FieldMessage     = "message"
)
