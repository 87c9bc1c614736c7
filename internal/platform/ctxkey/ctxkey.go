// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

// Package ctxkey holds the context keys for per-request values: identity,
// correlation ID, and the request-scoped logger.
//
// Keys are values of an unexported struct type, so no other package can
// construct a colliding key even if it stores the same name.
package ctxkey

type key struct{ name string }

var (
	// KeyRequestID carries the X-Request-ID correlation value.
	KeyRequestID = key{"request_id"}

	// KeyUser carries the authenticated [sec.AuthClaims], nil when anonymous.
	KeyUser = key{"user"}

	// KeyLogger carries the per-request [*log/slog.Logger].
	KeyLogger = key{"logger"}
)
