// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/tabletoptracker/backend/internal/platform/request"
	"github.com/tabletoptracker/backend/internal/platform/respond"
	"github.com/tabletoptracker/backend/internal/platform/validate"
	"github.com/tabletoptracker/backend/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for comment operations.
//
// Comments are a flat collection addressed by ID, with the parent post
// carried as a query parameter (list) or body field (create).
type Handler struct {
	service *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with comment-related endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listComments)
	router.Post("/", handler.createComment)
	router.Patch("/{id}", handler.updateComment)
	router.Delete("/{id}", handler.deleteComment)

	return router
}

// # Request Payloads

type createCommentRequest struct {
	PostID  string `json:"post_id"`
	Content string `json:"content"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

// # Comment Endpoints

/*
GET /api/v1/comments?post_id=...

Description: Retrieves a paginated list of a post's comments, oldest first.
Access follows the parent post's category.

Response:
  - 200: []Comment: Paginated list
  - 401/403: Authorization failures
  - 404: ErrNotFound: Parent post not found
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	postID := request.URL.Query().Get(FieldPostID)
	if postID == "" {
		respond.Error(writer, request, validate.RequiredError(FieldPostID, "is required"))
		return
	}

	paginationParams := pagination.FromRequest(request)

	comments, total, err := handler.service.ListByPost(
		request.Context(),
		requestutil.Claims(request),
		postID,
		paginationParams.Limit,
		paginationParams.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
POST /api/v1/comments

Description: Publishes a new comment under a post.

Request:
  - Body: createCommentRequest (PostID, Content)

Response:
  - 201: Comment: Created entity
  - 400: ErrInvalidJSON: Validation failure
  - 401/403: Authorization failures
  - 404: ErrNotFound: Parent post not found
*/
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	var input createCommentRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	comment, err := handler.service.Create(request.Context(), requestutil.Claims(request), CreateInput{
		PostID:  input.PostID,
		Content: input.Content,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
PATCH /api/v1/comments/{id}

Description: Updates a comment's content. Author-only.

Response:
  - 200: Comment: Updated entity
  - 403: ErrForbidden: Caller is not the author
  - 404: ErrNotFound: Comment not found
*/
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	var input updateCommentRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	comment, err := handler.service.Update(
		request.Context(),
		requestutil.Claims(request),
		requestutil.Param(request, "id"),
		input.Content,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
DELETE /api/v1/comments/{id}

Description: Deletes a comment. Author-or-elevated.

Response:
  - 204: No Content: Deleted
  - 403: ErrForbidden: Caller is neither author nor admin/mod
  - 404: ErrNotFound: Comment not found
*/
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.Delete(request.Context(), requestutil.Claims(request), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
