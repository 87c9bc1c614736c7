// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

// Package ctxutil reads and writes the per-request values that travel on
// [context.Context]: correlation ID, request-scoped logger, and the
// authenticated identity.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/tabletoptracker/backend/internal/platform/ctxkey"
	"github.com/tabletoptracker/backend/internal/platform/sec"
)

// # Request Tracing

// WithRequestID attaches a correlation ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the correlation ID, or "" when the request never
// passed through the tracing middleware.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger attaches a request-scoped logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request-scoped logger, falling back to
// [slog.Default] so callers never need a nil check.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// # Identity

// WithAuthUser attaches verified auth claims to the context.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetAuthUser returns the verified [*sec.AuthClaims], or nil for an
// anonymous request. Services branch on nil to apply the anonymous-read
// policy.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	return claims
}
