// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package post

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tabletoptracker/backend/internal/platform/dberr"
	"github.com/tabletoptracker/backend/internal/platform/sec"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed post store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Create persists a new post record into the forum.post table.

Parameters:
  - context: context.Context
  - post: *Post

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, post *Post) error {
	const query = `
		INSERT INTO forum.post (id, authorid, title, slug, category, content, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		post.ID,
		post.AuthorID,
		post.Title,
		post.Slug,
		post.Category,
		post.Content,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}

	return nil
}

/*
FindByID retrieves a single post by its primary key.

Description: Joins the author's username for display.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Post: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Post, error) {
	const query = `
		SELECT p.id, p.authorid, a.username, p.title, p.slug, p.category, p.content, p.createdat, p.updatedat
		FROM forum.post p
		JOIN users.account a ON a.id = p.authorid
		WHERE p.id = $1`

	post := &Post{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&post.ID, &post.AuthorID, &post.AuthorName, &post.Title, &post.Slug,
		&post.Category, &post.Content, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Post")
	}

	return post, nil
}

/*
List returns a paginated page of posts in a category, newest first.

Description: Uses COUNT(*) OVER() for total metadata in a single round trip.

Parameters:
  - context: context.Context
  - category: sec.Category
  - limit, offset: int

Returns:
  - []*Post: Page of posts
  - int: Total matching count
  - error: Retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, category sec.Category, limit, offset int) ([]*Post, int, error) {
	const query = `
		SELECT p.id, p.authorid, a.username, p.title, p.slug, p.category, p.content, p.createdat, p.updatedat,
			COUNT(*) OVER() AS total
		FROM forum.post p
		JOIN users.account a ON a.id = p.authorid
		WHERE p.category = $1
		ORDER BY p.createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.db.Query(context, query, category, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Post")
	}
	defer rows.Close()

	var posts []*Post
	var total int
	for rows.Next() {
		post := &Post{}
		err := rows.Scan(
			&post.ID, &post.AuthorID, &post.AuthorName, &post.Title, &post.Slug,
			&post.Category, &post.Content, &post.CreatedAt, &post.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Post")
		}
		posts = append(posts, post)
	}

	return posts, total, nil
}

/*
Update persists changes to a post's mutable fields.

Parameters:
  - context: context.Context
  - post: *Post

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) Update(context context.Context, post *Post) error {
	const query = `
		UPDATE forum.post
		SET title = $2, slug = $3, content = $4, updatedat = $5
		WHERE id = $1`

	post.UpdatedAt = time.Now()
	_, err := repository.db.Exec(context, query, post.ID, post.Title, post.Slug, post.Content, post.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}

	return nil
}

/*
Delete permanently removes a post.

Description: forum.comment carries ON DELETE CASCADE on its post reference,
so attached comments are removed in the same statement.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM forum.post WHERE id = $1"

	_, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Post")
	}

	return nil
}
