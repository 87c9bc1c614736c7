// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package comment

import "context"

// # Comment Data Access

// Repository defines the data access contract for comments.
type Repository interface {

	/*
		Create persists a new comment.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, comment *Comment) error

	/*
		FindByID returns the comment with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Comment: Hydrated entity with author name
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Comment, error)

	/*
		ListByPost returns a post's comments, oldest first, with the total count.

		Parameters:
		  - context: context.Context
		  - postID: string
		  - limit, offset: int

		Returns:
		  - []*Comment: Page of comments
		  - int: Total matching count
		  - error: Retrieval failures
	*/
	ListByPost(context context.Context, postID string, limit, offset int) ([]*Comment, int, error)

	/*
		Update persists changes to a comment's content.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, comment *Comment) error

	/*
		Delete removes a comment.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error
}
