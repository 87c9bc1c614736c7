// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package comment

import (
	"context"
	"log/slog"

	"github.com/tabletoptracker/backend/internal/forum/post"
	"github.com/tabletoptracker/backend/internal/platform/apperr"
	"github.com/tabletoptracker/backend/internal/platform/sec"
	"github.com/tabletoptracker/backend/internal/platform/validate"
	"github.com/tabletoptracker/backend/pkg/uuid"
)

// # Contracts & Types

// PostDirectory resolves parent posts. Satisfied by the post service; the
// comment domain only needs the post's category and existence, never its
// access decisions; those are re-applied here against the caller's claims.
type PostDirectory interface {
	Resolve(context context.Context, id string) (*post.Post, error)
}

// Service orchestrates business rules for comments.
type Service struct {
	repo   Repository
	posts  PostDirectory
	logger *slog.Logger
}

// NewService constructs a new comment [Service].
func NewService(repo Repository, posts PostDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		posts:  posts,
		logger: logger,
	}
}

// # Comment Operations

/*
ListByPost retrieves a paginated page of a post's comments, oldest first.

Description: Gated by the parent post's category: anonymous callers may list
comments only under general posts.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (nil for anonymous)
  - postID: string
  - limit, offset: int

Returns:
  - []*Comment: Page of comments
  - int: Total matching count
  - error: NotFound, authorization, or retrieval errors
*/
func (service *Service) ListByPost(context context.Context, claims *sec.AuthClaims, postID string, limit, offset int) ([]*Comment, int, error) {
	parent, err := service.posts.Resolve(context, postID)
	if err != nil {
		return nil, 0, err
	}

	if err := post.ReadGate(claims, parent.Category); err != nil {
		return nil, 0, err
	}

	return service.repo.ListByPost(context, postID, limit, offset)
}

// CreateInput holds the data required to publish a new comment.
type CreateInput struct {
	PostID  string
	Content string
}

/*
Create validates and persists a new comment authored by the caller.

Description: The caller must be able to write in the parent post's category.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - input: CreateInput

Returns:
  - *Comment: Created entity
  - error: Validation, NotFound, authorization, or persistence errors
*/
func (service *Service) Create(context context.Context, claims *sec.AuthClaims, input CreateInput) (*Comment, error) {
	validator := &validate.Validator{}
	validator.Required(FieldPostID, input.PostID).
		Required(FieldContent, input.Content).
		MaxLen(FieldContent, input.Content, MaxContentLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	parent, err := service.posts.Resolve(context, input.PostID)
	if err != nil {
		return nil, err
	}

	if err := post.WriteGate(claims, parent.Category); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:         uuid.New(),
		PostID:     parent.ID,
		AuthorID:   claims.UserID,
		AuthorName: claims.Username,
		Content:    input.Content,
	}

	if err := service.repo.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("post_id", comment.PostID),
		slog.String("author_id", comment.AuthorID),
	)

	return comment, nil
}

/*
Update modifies a comment's content. Author-only.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - id: string
  - content: string

Returns:
  - *Comment: Updated entity
  - error: NotFound, Forbidden, validation, or persistence errors
*/
func (service *Service) Update(context context.Context, claims *sec.AuthClaims, id, content string) (*Comment, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	validator := &validate.Validator{}
	validator.Required(FieldContent, content).MaxLen(FieldContent, content, MaxContentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != claims.UserID {
		return nil, apperr.Forbidden("Only the author can edit this comment")
	}

	comment.Content = content
	if err := service.repo.Update(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_updated", slog.String("comment_id", comment.ID))

	return comment, nil
}

/*
Delete removes a comment.

Description: Author-or-elevated rule: the author may delete their own comment,
and admin/mod may delete any comment.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - id: string

Returns:
  - error: NotFound, Forbidden, or persistence errors
*/
func (service *Service) Delete(context context.Context, claims *sec.AuthClaims, id string) error {
	comment, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if !sec.CanDelete(claims, comment.AuthorID) {
		return apperr.Forbidden("You are not allowed to delete this comment")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("comment_deleted",
		slog.String("comment_id", id),
		slog.String("deleted_by", claims.UserID),
	)

	return nil
}
