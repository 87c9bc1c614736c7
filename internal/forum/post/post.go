// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

/*
Package post implements the forum post domain.

Posts live in a topic category (general, dm, player, mod) and every read and
write is gated by the role→category access policy. The one exception is the
general category, which is world-readable: anonymous visitors may list and
read general posts without any identity.
*/
package post

import (
	"time"

	"github.com/tabletoptracker/backend/internal/platform/sec"
)

// # Domain Entities

// Post represents a forum post inside a topic category.
type Post struct {
	ID         string       `json:"id"`
	AuthorID   string       `json:"author_id"`
	AuthorName string       `json:"author_name"`
	Title      string       `json:"title"`
	Slug       string       `json:"slug"`
	Category   sec.Category `json:"category"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldTitle    = "title"
	FieldCategory = "category"
	FieldContent  = "content"
)

// # Content Constraints

const (
	// MaxTitleLength bounds post titles.
	MaxTitleLength = 200

	// MaxContentLength bounds post bodies.
	MaxContentLength = 20000
)
