// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

/*
Package comment implements the forum comment domain.

Comments attach to posts and inherit their parent post's category for every
access decision: reading or writing a comment is allowed exactly when the
caller could read or write a post in that category.
*/
package comment

import "time"

// # Domain Entities

// Comment represents a single comment under a forum post.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldPostID  = "post_id"
	FieldContent = "content"
)

// MaxContentLength bounds comment bodies.
const MaxContentLength = 5000
