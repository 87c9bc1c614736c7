// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package comment

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tabletoptracker/backend/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed comment store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Create persists a new comment record into the forum.comment table.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO forum.comment (id, postid, authorid, content, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	comment.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Comment")
	}

	return nil
}

/*
FindByID retrieves a single comment by its primary key.

Description: Joins the author's username for display.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Comment: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Comment, error) {
	const query = `
		SELECT c.id, c.postid, c.authorid, a.username, c.content, c.createdat, c.updatedat
		FROM forum.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.id = $1`

	comment := &Comment{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID, &comment.AuthorName,
		&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment")
	}

	return comment, nil
}

/*
ListByPost returns a paginated page of a post's comments, oldest first.

Description: Oldest-first keeps the conversation in reading order. Uses
COUNT(*) OVER() for total metadata in a single round trip.

Parameters:
  - context: context.Context
  - postID: string
  - limit, offset: int

Returns:
  - []*Comment: Page of comments
  - int: Total matching count
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListByPost(context context.Context, postID string, limit, offset int) ([]*Comment, int, error) {
	const query = `
		SELECT c.id, c.postid, c.authorid, a.username, c.content, c.createdat, c.updatedat,
			COUNT(*) OVER() AS total
		FROM forum.comment c
		JOIN users.account a ON a.id = c.authorid
		WHERE c.postid = $1
		ORDER BY c.createdat ASC
		LIMIT $2 OFFSET $3`

	rows, err := repository.db.Query(context, query, postID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Comment")
	}
	defer rows.Close()

	var comments []*Comment
	var total int
	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.AuthorID, &comment.AuthorName,
			&comment.Content, &comment.CreatedAt, &comment.UpdatedAt, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Comment")
		}
		comments = append(comments, comment)
	}

	return comments, total, nil
}

/*
Update persists changes to a comment's content.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) Update(context context.Context, comment *Comment) error {
	const query = "UPDATE forum.comment SET content = $2, updatedat = $3 WHERE id = $1"

	comment.UpdatedAt = time.Now()
	_, err := repository.db.Exec(context, query, comment.ID, comment.Content, comment.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "Comment")
	}

	return nil
}

/*
Delete permanently removes a comment.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM forum.comment WHERE id = $1"

	_, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Comment")
	}

	return nil
}
