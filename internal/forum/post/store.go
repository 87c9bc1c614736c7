// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package post

import (
	"context"

	"github.com/tabletoptracker/backend/internal/platform/sec"
)

// # Post Data Access

// Repository defines the data access contract for forum posts.
type Repository interface {

	/*
		Create persists a new post.

		Parameters:
		  - context: context.Context
		  - post: *Post

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, post *Post) error

	/*
		FindByID returns the post with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Post: Hydrated entity with author name
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Post, error)

	/*
		List returns posts in a category, newest first, with the total count.

		Parameters:
		  - context: context.Context
		  - category: sec.Category
		  - limit, offset: int

		Returns:
		  - []*Post: Page of posts
		  - int: Total matching count
		  - error: Retrieval failures
	*/
	List(context context.Context, category sec.Category, limit, offset int) ([]*Post, int, error)

	/*
		Update persists changes to a post's title, slug, and content.

		Parameters:
		  - context: context.Context
		  - post: *Post

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, post *Post) error

	/*
		Delete removes a post. Comments attached to it are removed by the
		schema's cascade rule.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error
}
