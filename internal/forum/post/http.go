// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

/*
Package post provides the HTTP interface for forum posts.

# Routing Strategy

  - Public: general-category listing and detail views are anonymously readable.
  - Authenticated: every write, and every read outside the general category.

The category policy itself lives in the [Service]; the handler only decodes
transport and hands over the caller's resolved claims (which may be nil).
*/
package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/tabletoptracker/backend/internal/platform/request"
	"github.com/tabletoptracker/backend/internal/platform/respond"
	"github.com/tabletoptracker/backend/internal/platform/sec"
	"github.com/tabletoptracker/backend/internal/platform/validate"
	"github.com/tabletoptracker/backend/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for post operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new post [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with post-related endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listPosts)
	router.Get("/{id}", handler.getPost)
	router.Post("/", handler.createPost)
	router.Patch("/{id}", handler.updatePost)
	router.Delete("/{id}", handler.deletePost)

	return router
}

// # Request Payloads

type createPostRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

type updatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// # Post Endpoints

/*
GET /api/v1/posts?category=general

Description: Retrieves a paginated list of posts in a category, newest first.
The category defaults to general, the only category readable without a token.

Request:
  - category: string (general | dm | player | mod)
  - limit, page: int

Response:
  - 200: []Post: Paginated list
  - 401: ErrUnauthorized: Non-general category requested anonymously
  - 403: ErrForbidden: Role not allowed in this category
*/
func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	category := sec.Category(request.URL.Query().Get(FieldCategory))
	if category == "" {
		category = sec.CategoryGeneral
	}

	posts, total, err := handler.service.List(
		request.Context(),
		requestutil.Claims(request),
		category,
		paginationParams.Limit,
		paginationParams.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/posts/{id}

Description: Retrieves a single post, gated by its category.

Response:
  - 200: Post: Success
  - 401/403: Authorization failures
  - 404: ErrNotFound: Post not found
*/
func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.service.Get(request.Context(), requestutil.Claims(request), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

/*
POST /api/v1/posts

Description: Publishes a new post authored by the caller.

Request:
  - Body: createPostRequest (Title, Category, Content)

Response:
  - 201: Post: Created entity
  - 400: ErrInvalidJSON: Validation failure
  - 401/403: Authorization failures
*/
func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	var input createPostRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	post, err := handler.service.Create(request.Context(), requestutil.Claims(request), CreateInput{
		Title:    input.Title,
		Category: input.Category,
		Content:  input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, post)
}

/*
PATCH /api/v1/posts/{id}

Description: Updates a post's title and content. Author-only.

Response:
  - 200: Post: Updated entity
  - 403: ErrForbidden: Caller is not the author
  - 404: ErrNotFound: Post not found
*/
func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	var input updatePostRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	post, err := handler.service.Update(
		request.Context(),
		requestutil.Claims(request),
		requestutil.Param(request, "id"),
		UpdateInput{Title: input.Title, Content: input.Content},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

/*
DELETE /api/v1/posts/{id}

Description: Deletes a post and its comments. Author-or-elevated.

Response:
  - 204: No Content: Deleted
  - 403: ErrForbidden: Caller is neither author nor admin/mod
  - 404: ErrNotFound: Post not found
*/
func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.Delete(request.Context(), requestutil.Claims(request), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
