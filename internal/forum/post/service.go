// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package post

import (
	"context"
	"log/slog"

	"github.com/tabletoptracker/backend/internal/platform/apperr"
	"github.com/tabletoptracker/backend/internal/platform/sec"
	"github.com/tabletoptracker/backend/internal/platform/validate"
	"github.com/tabletoptracker/backend/pkg/slug"
	"github.com/tabletoptracker/backend/pkg/uuid"
)

// # Service Layer

// Service orchestrates business rules for forum posts.
//
// Every operation takes the caller's resolved claims (nil for anonymous) and
// applies the role→category access policy before touching storage.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new post [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Access Gates

// ReadGate enforces the category policy for reads. Anonymous reads are
// allowed only in the general category; everywhere else an identity is
// required and its role must grant the category.
func ReadGate(claims *sec.AuthClaims, category sec.Category) error {
	if category == sec.CategoryGeneral && claims == nil {
		return nil
	}
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !sec.UserRole(claims.Role).CanAccess(category) {
		return apperr.Forbidden("Your role does not grant access to this category")
	}
	return nil
}

// WriteGate enforces the category policy for writes. Writes always require
// an identity, including in the general category.
func WriteGate(claims *sec.AuthClaims, category sec.Category) error {
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !sec.UserRole(claims.Role).CanAccess(category) {
		return apperr.Forbidden("Your role does not grant access to this category")
	}
	return nil
}

// # Post Operations

/*
List retrieves a paginated page of posts in a category, newest first.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (nil for anonymous)
  - category: sec.Category
  - limit, offset: int

Returns:
  - []*Post: Page of posts
  - int: Total matching count
  - error: Validation, authorization, or retrieval errors
*/
func (service *Service) List(context context.Context, claims *sec.AuthClaims, category sec.Category, limit, offset int) ([]*Post, int, error) {
	if !category.IsValid() {
		return nil, 0, apperr.ValidationError("Category must be one of general, dm, player, mod")
	}

	if err := ReadGate(claims, category); err != nil {
		return nil, 0, err
	}

	return service.repo.List(context, category, limit, offset)
}

/*
Get retrieves a single post, gated by its category.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (nil for anonymous)
  - id: string

Returns:
  - *Post: Hydrated entity
  - error: NotFound or authorization errors
*/
func (service *Service) Get(context context.Context, claims *sec.AuthClaims, id string) (*Post, error) {
	post, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := ReadGate(claims, post.Category); err != nil {
		return nil, err
	}

	return post, nil
}

// CreateInput holds the data required to publish a new post.
type CreateInput struct {
	Title    string
	Category string
	Content  string
}

/*
Create validates and persists a new post authored by the caller.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - input: CreateInput

Returns:
  - *Post: Created entity
  - error: Validation, authorization, or persistence errors
*/
func (service *Service) Create(context context.Context, claims *sec.AuthClaims, input CreateInput) (*Post, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		Required(FieldCategory, input.Category).
		Required(FieldContent, input.Content).
		MaxLen(FieldContent, input.Content, MaxContentLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	category := sec.Category(input.Category)
	if !category.IsValid() {
		return nil, apperr.ValidationError("Category must be one of general, dm, player, mod")
	}

	if err := WriteGate(claims, category); err != nil {
		return nil, err
	}

	post := &Post{
		ID:         uuid.New(),
		AuthorID:   claims.UserID,
		AuthorName: claims.Username,
		Title:      input.Title,
		Slug:       slug.From(input.Title),
		Category:   category,
		Content:    input.Content,
	}

	if err := service.repo.Create(context, post); err != nil {
		return nil, err
	}

	service.logger.Info("post_created",
		slog.String("post_id", post.ID),
		slog.String("author_id", post.AuthorID),
		slog.String("category", string(post.Category)),
	)

	return post, nil
}

// UpdateInput holds the mutable fields of a post. Empty fields are left unchanged.
type UpdateInput struct {
	Title   string
	Content string
}

/*
Update modifies a post's title and content. Author-only: moderation roles may
delete foreign posts but never edit them.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - id: string
  - input: UpdateInput

Returns:
  - *Post: Updated entity
  - error: NotFound, Forbidden, validation, or persistence errors
*/
func (service *Service) Update(context context.Context, claims *sec.AuthClaims, id string, input UpdateInput) (*Post, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	validator := &validate.Validator{}
	if input.Title != "" {
		validator.MaxLen(FieldTitle, input.Title, MaxTitleLength)
	}
	if input.Content != "" {
		validator.MaxLen(FieldContent, input.Content, MaxContentLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	post, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != claims.UserID {
		return nil, apperr.Forbidden("Only the author can edit this post")
	}

	if input.Title != "" {
		post.Title = input.Title
		post.Slug = slug.From(input.Title)
	}
	if input.Content != "" {
		post.Content = input.Content
	}

	if err := service.repo.Update(context, post); err != nil {
		return nil, err
	}

	service.logger.Info("post_updated", slog.String("post_id", post.ID))

	return post, nil
}

/*
Delete removes a post and, through the schema cascade, its comments.

Description: Author-or-elevated rule: the author may delete their own post,
and admin/mod may delete any post. Orthogonal to the category map.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - id: string

Returns:
  - error: NotFound, Forbidden, or persistence errors
*/
func (service *Service) Delete(context context.Context, claims *sec.AuthClaims, id string) error {
	post, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if !sec.CanDelete(claims, post.AuthorID) {
		return apperr.Forbidden("You are not allowed to delete this post")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("post_deleted",
		slog.String("post_id", id),
		slog.String("deleted_by", claims.UserID),
	)

	return nil
}

// # Cross-Domain Resolution

// Resolve returns a post by ID without any access gate. The comment service
// uses it to locate the parent post and then applies the category policy
// itself against the caller's claims.
func (service *Service) Resolve(context context.Context, id string) (*Post, error) {
	return service.repo.FindByID(context, id)
}
