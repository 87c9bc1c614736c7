// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package post

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletoptracker/backend/internal/platform/apperr"
	"github.com/tabletoptracker/backend/internal/platform/sec"
)

// # Test Doubles

type memoryRepository struct {
	mu    sync.Mutex
	posts map[string]*Post
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{posts: make(map[string]*Post)}
}

func (repo *memoryRepository) Create(_ context.Context, post *Post) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	clone := *post
	repo.posts[post.ID] = &clone
	return nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*Post, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if post, ok := repo.posts[id]; ok {
		clone := *post
		return &clone, nil
	}
	return nil, apperr.NotFound("Post")
}

func (repo *memoryRepository) List(_ context.Context, category sec.Category, limit, offset int) ([]*Post, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var matching []*Post
	for _, post := range repo.posts {
		if post.Category == category {
			clone := *post
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

func (repo *memoryRepository) Update(_ context.Context, post *Post) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	clone := *post
	repo.posts[post.ID] = &clone
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	delete(repo.posts, id)
	return nil
}

// # Fixtures

func newTestService() (*Service, *memoryRepository) {
	repo := newMemoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, logger), repo
}

func claimsFor(id, username string, role sec.UserRole) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: id, Username: username, Role: string(role)}
}

func createPost(t *testing.T, service *Service, claims *sec.AuthClaims, category string) *Post {
	t.Helper()

	post, err := service.Create(context.Background(), claims, CreateInput{
		Title:    "Session zero checklist",
		Category: category,
		Content:  "Bring dice.",
	})
	require.NoError(t, err)
	return post
}

// # Creation & Category Gating

func TestCreate_PlayerAllowedInPlayerCategory(t *testing.T) {
	service, _ := newTestService()

	post := createPost(t, service, claimsFor("u1", "alice", sec.RolePlayer), "player")
	assert.Equal(t, "u1", post.AuthorID)
	assert.Equal(t, sec.CategoryPlayer, post.Category)
	assert.Equal(t, "session-zero-checklist", post.Slug)
}

func TestCreate_PlayerDeniedInDMCategory(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), claimsFor("u1", "alice", sec.RolePlayer), CreateInput{
		Title:    "Hidden plot",
		Category: "dm",
		Content:  "The twist villain is the innkeeper.",
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func TestCreate_AnonymousDenied(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), nil, CreateInput{
		Title:    "Hello",
		Category: "general",
		Content:  "Anonymous writes are never allowed.",
	})
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

func TestCreate_UnknownCategoryRejected(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), claimsFor("u1", "alice", sec.RoleAdmin), CreateInput{
		Title:    "Hello",
		Category: "offtopic",
		Content:  "Body",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

// # Reads

func TestList_AnonymousGeneralAllowed(t *testing.T) {
	service, _ := newTestService()
	createPost(t, service, claimsFor("u1", "alice", sec.RolePlayer), "general")

	posts, total, err := service.List(context.Background(), nil, sec.CategoryGeneral, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, posts, 1)
}

func TestList_AnonymousNonGeneralDenied(t *testing.T) {
	service, _ := newTestService()

	_, _, err := service.List(context.Background(), nil, sec.CategoryPlayer, 20, 0)
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

// TestList_RoleCategoryMatrix pins the full role→category read policy.
func TestList_RoleCategoryMatrix(t *testing.T) {
	testCases := []struct {
		role    sec.UserRole
		allowed []sec.Category
		denied  []sec.Category
	}{
		{sec.RoleAdmin, []sec.Category{sec.CategoryGeneral, sec.CategoryDM, sec.CategoryPlayer, sec.CategoryMod}, nil},
		{sec.RoleMod, []sec.Category{sec.CategoryGeneral, sec.CategoryDM, sec.CategoryPlayer}, []sec.Category{sec.CategoryMod}},
		{sec.RoleDM, []sec.Category{sec.CategoryGeneral, sec.CategoryDM}, []sec.Category{sec.CategoryPlayer, sec.CategoryMod}},
		{sec.RolePlayer, []sec.Category{sec.CategoryGeneral, sec.CategoryPlayer}, []sec.Category{sec.CategoryDM, sec.CategoryMod}},
	}

	for _, testCase := range testCases {
		t.Run(string(testCase.role), func(t *testing.T) {
			service, _ := newTestService()
			claims := claimsFor("u1", "alice", testCase.role)

			for _, category := range testCase.allowed {
				_, _, err := service.List(context.Background(), claims, category, 20, 0)
				assert.NoError(t, err, "role %s should access %s", testCase.role, category)
			}
			for _, category := range testCase.denied {
				_, _, err := service.List(context.Background(), claims, category, 20, 0)
				assert.Error(t, err, "role %s should be denied %s", testCase.role, category)
			}
		})
	}
}

func TestGet_GatedByPostCategory(t *testing.T) {
	service, _ := newTestService()
	dmPost := createPost(t, service, claimsFor("u1", "gm", sec.RoleDM), "dm")
	generalPost := createPost(t, service, claimsFor("u1", "gm", sec.RoleDM), "general")

	// Anonymous may read general but not dm
	_, err := service.Get(context.Background(), nil, generalPost.ID)
	assert.NoError(t, err)

	_, err = service.Get(context.Background(), nil, dmPost.ID)
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)

	// A player is authenticated but still denied the dm board
	_, err = service.Get(context.Background(), claimsFor("u2", "bob", sec.RolePlayer), dmPost.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

// # Update & Deletion

func TestUpdate_AuthorOnly(t *testing.T) {
	service, _ := newTestService()
	author := claimsFor("u1", "alice", sec.RolePlayer)
	post := createPost(t, service, author, "player")

	updated, err := service.Update(context.Background(), author, post.ID, UpdateInput{Title: "New title"})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "new-title", updated.Slug)

	// Even an admin cannot edit someone else's post
	_, err = service.Update(context.Background(), claimsFor("u2", "root", sec.RoleAdmin), post.ID, UpdateInput{Title: "Hijacked"})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func TestDelete_AuthorOrElevated(t *testing.T) {
	service, repo := newTestService()
	author := claimsFor("u1", "alice", sec.RolePlayer)

	// The author may delete their own post
	post := createPost(t, service, author, "player")
	require.NoError(t, service.Delete(context.Background(), author, post.ID))

	// Another player may not
	post = createPost(t, service, author, "player")
	err := service.Delete(context.Background(), claimsFor("u2", "bob", sec.RolePlayer), post.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	// A mod may
	require.NoError(t, service.Delete(context.Background(), claimsFor("u3", "mads", sec.RoleMod), post.ID))

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Empty(t, repo.posts)
}

func TestDelete_AnonymousDenied(t *testing.T) {
	service, _ := newTestService()
	post := createPost(t, service, claimsFor("u1", "alice", sec.RolePlayer), "general")

	err := service.Delete(context.Background(), nil, post.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}
