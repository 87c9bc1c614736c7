// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

// Package uuid issues the identifiers used as primary keys across the
// forum: UUIDv7, so keys sort by creation time and keep the PostgreSQL
// B-tree indexes append-friendly.
package uuid

import "github.com/google/uuid"

// New returns a fresh UUIDv7 string.
//
// Generation only fails when the OS entropy source does, which is not a
// condition the caller can handle; it panics instead of returning an error.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}
