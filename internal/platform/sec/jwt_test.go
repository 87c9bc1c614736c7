// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletoptracker/backend/internal/platform/sec"
)

func newTestTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("access-secret-for-tests", "refresh-secret-for-tests", "tabletop-tracker.test")
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService_RejectsWeakConfiguration verifies that empty or shared
secrets are refused at construction time.
*/
func TestNewTokenService_RejectsWeakConfiguration(t *testing.T) {
	_, err := sec.NewTokenService("", "refresh", "issuer")
	assert.Error(t, err)

	_, err = sec.NewTokenService("access", "", "issuer")
	assert.Error(t, err)

	// Access and refresh must not share a secret, or a refresh token could
	// be replayed as an access token.
	_, err = sec.NewTokenService("same-secret", "same-secret", "issuer")
	assert.Error(t, err)
}

/*
TestAccessToken_IssueAndVerify verifies the access token lifecycle: signing
embeds the identity claims and verification recovers them.
*/
func TestAccessToken_IssueAndVerify(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "alice", "dm", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "dm", claims.Role)
	assert.Equal(t, "tabletop-tracker.test", claims.Issuer)
}

/*
TestAccessToken_ExpiredRejected verifies that a token past its TTL fails
verification with ErrInvalidToken.
*/
func TestAccessToken_ExpiredRejected(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "alice", "player", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestAccessToken_GarbageRejected verifies that malformed strings fail
verification.
*/
func TestAccessToken_GarbageRejected(t *testing.T) {
	service := newTestTokenService(t)

	_, err := service.VerifyAccessToken("not.a.token")
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = service.VerifyAccessToken("")
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_SecretSeparation verifies that the two token families are
not interchangeable: an access token never passes refresh verification and
vice versa.
*/
func TestTokenService_SecretSeparation(t *testing.T) {
	service := newTestTokenService(t)

	accessToken, err := service.GenerateAccessToken("user-1", "alice", "player", time.Minute)
	require.NoError(t, err)
	refreshToken, err := service.GenerateRefreshToken("user-1", time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = service.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestRefreshToken_IssueAndVerify verifies that a refresh token carries the
subject identity and nothing else.
*/
func TestRefreshToken_IssueAndVerify(t *testing.T) {
	service := newTestTokenService(t)

	token, err := service.GenerateRefreshToken("user-42", time.Hour)
	require.NoError(t, err)

	userID, err := service.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

/*
TestTokens_DistinctWithinSameSecond verifies that two tokens minted
back-to-back for the same identity are still distinct strings. JWT
timestamps have second precision, so distinctness relies on the jti claim.
*/
func TestTokens_DistinctWithinSameSecond(t *testing.T) {
	service := newTestTokenService(t)

	firstAccess, err := service.GenerateAccessToken("user-1", "alice", "player", time.Minute)
	require.NoError(t, err)
	secondAccess, err := service.GenerateAccessToken("user-1", "alice", "player", time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, firstAccess, secondAccess)

	firstRefresh, err := service.GenerateRefreshToken("user-1", time.Hour)
	require.NoError(t, err)
	secondRefresh, err := service.GenerateRefreshToken("user-1", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, firstRefresh, secondRefresh)
}
