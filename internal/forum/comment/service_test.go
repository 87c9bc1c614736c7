// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package comment

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletoptracker/backend/internal/forum/post"
	"github.com/tabletoptracker/backend/internal/platform/apperr"
	"github.com/tabletoptracker/backend/internal/platform/sec"
)

// # Test Doubles

type memoryRepository struct {
	mu       sync.Mutex
	comments map[string]*Comment
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{comments: make(map[string]*Comment)}
}

func (repo *memoryRepository) Create(_ context.Context, comment *Comment) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	clone := *comment
	repo.comments[comment.ID] = &clone
	return nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*Comment, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if comment, ok := repo.comments[id]; ok {
		clone := *comment
		return &clone, nil
	}
	return nil, apperr.NotFound("Comment")
}

func (repo *memoryRepository) ListByPost(_ context.Context, postID string, limit, offset int) ([]*Comment, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var matching []*Comment
	for _, comment := range repo.comments {
		if comment.PostID == postID {
			clone := *comment
			matching = append(matching, &clone)
		}
	}

	total := len(matching)
	if offset > total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matching[offset:end], total, nil
}

func (repo *memoryRepository) Update(_ context.Context, comment *Comment) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	clone := *comment
	repo.comments[comment.ID] = &clone
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	delete(repo.comments, id)
	return nil
}

// fixedPostDirectory serves a static set of parent posts.
type fixedPostDirectory struct {
	posts map[string]*post.Post
}

func (directory *fixedPostDirectory) Resolve(_ context.Context, id string) (*post.Post, error) {
	if parent, ok := directory.posts[id]; ok {
		return parent, nil
	}
	return nil, apperr.NotFound("Post")
}

// # Fixtures

func newTestService() (*Service, *memoryRepository) {
	repo := newMemoryRepository()
	directory := &fixedPostDirectory{posts: map[string]*post.Post{
		"post-general": {ID: "post-general", AuthorID: "author", Category: sec.CategoryGeneral},
		"post-dm":      {ID: "post-dm", AuthorID: "author", Category: sec.CategoryDM},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, directory, logger), repo
}

func claimsFor(id, username string, role sec.UserRole) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: id, Username: username, Role: string(role)}
}

// # Creation

func TestCreate_InheritsParentCategoryGate(t *testing.T) {
	service, _ := newTestService()

	// A player may comment under a general post
	comment, err := service.Create(context.Background(), claimsFor("u1", "alice", sec.RolePlayer), CreateInput{
		PostID:  "post-general",
		Content: "Nice write-up!",
	})
	require.NoError(t, err)
	assert.Equal(t, "post-general", comment.PostID)
	assert.Equal(t, "u1", comment.AuthorID)

	// But not under a dm post
	_, err = service.Create(context.Background(), claimsFor("u1", "alice", sec.RolePlayer), CreateInput{
		PostID:  "post-dm",
		Content: "Sneaking a peek.",
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func TestCreate_AnonymousDenied(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), nil, CreateInput{
		PostID:  "post-general",
		Content: "Anonymous comment",
	})
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

func TestCreate_MissingParentPost(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), claimsFor("u1", "alice", sec.RolePlayer), CreateInput{
		PostID:  "post-gone",
		Content: "Orphan",
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Reads

func TestListByPost_AnonymousGeneralAllowed(t *testing.T) {
	service, _ := newTestService()
	dm := claimsFor("gm", "gm", sec.RoleDM)

	_, err := service.Create(context.Background(), dm, CreateInput{PostID: "post-general", Content: "First!"})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), dm, CreateInput{PostID: "post-dm", Content: "Prep notes"})
	require.NoError(t, err)

	// Anonymous: general thread readable, dm thread not
	comments, total, err := service.ListByPost(context.Background(), nil, "post-general", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, comments, 1)

	_, _, err = service.ListByPost(context.Background(), nil, "post-dm", 20, 0)
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)

	// A player is authenticated but still denied the dm thread
	_, _, err = service.ListByPost(context.Background(), claimsFor("u1", "alice", sec.RolePlayer), "post-dm", 20, 0)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

// # Update & Deletion

func TestUpdate_AuthorOnly(t *testing.T) {
	service, _ := newTestService()
	author := claimsFor("u1", "alice", sec.RolePlayer)

	comment, err := service.Create(context.Background(), author, CreateInput{PostID: "post-general", Content: "v1"})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), author, comment.ID, "v2")
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)

	_, err = service.Update(context.Background(), claimsFor("u2", "root", sec.RoleAdmin), comment.ID, "hijack")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

// TestDelete_AuthorOrElevated pins the deletion matrix: author yes, other
// player no, mod and admin yes.
func TestDelete_AuthorOrElevated(t *testing.T) {
	service, _ := newTestService()
	author := claimsFor("ua", "alice", sec.RolePlayer)

	newComment := func() string {
		comment, err := service.Create(context.Background(), author, CreateInput{PostID: "post-general", Content: "hello"})
		require.NoError(t, err)
		return comment.ID
	}

	// Author deletes own comment
	require.NoError(t, service.Delete(context.Background(), author, newComment()))

	// Another player is denied
	id := newComment()
	err := service.Delete(context.Background(), claimsFor("ub", "bob", sec.RolePlayer), id)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	// Mod and admin may delete foreign comments
	require.NoError(t, service.Delete(context.Background(), claimsFor("um", "mads", sec.RoleMod), id))
	require.NoError(t, service.Delete(context.Background(), claimsFor("ur", "root", sec.RoleAdmin), newComment()))
}
