package comment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines comment data access
type Repository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListRoots(ctx context.Context, storyID uuid.UUID, limit, offset int) ([]*Comment, int, error)
	ListReplies(ctx context.Context, parentID uuid.UUID, limit int) ([]*Comment, error)
	DeleteWithReplies(ctx context.Context, id uuid.UUID) error
	CountByStory(ctx context.Context, storyID uuid.UUID) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new comment repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (id, story_id, author_id, parent_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		comment.ID,
		comment.StoryID,
		comment.AuthorID,
		comment.ParentID,
		comment.Content,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrStoryNotFound
		}
		return fmt.Errorf("comment repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	var comment Comment
	err := r.db.GetContext(ctx, &comment, `SELECT * FROM comments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *repository) ListRoots(ctx context.Context, storyID uuid.UUID, limit, offset int) ([]*Comment, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM comments WHERE story_id = $1 AND parent_id IS NULL`, storyID); err != nil {
		return nil, 0, err
	}

	comments := []*Comment{}
	err := r.db.SelectContext(ctx, &comments, `
		SELECT * FROM comments
		WHERE story_id = $1 AND parent_id IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, storyID, limit, offset)
	return comments, total, err
}

func (r *repository) ListReplies(ctx context.Context, parentID uuid.UUID, limit int) ([]*Comment, error) {
	comments := []*Comment{}
	err := r.db.SelectContext(ctx, &comments, `
		SELECT * FROM comments
		WHERE parent_id = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, parentID, limit)
	return comments, err
}

// DeleteWithReplies removes a comment and its direct replies in one
// transaction so a reply is never left pointing at a missing parent.
func (r *repository) DeleteWithReplies(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("comment repository begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE parent_id = $1`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCommentNotFound
	}

	return tx.Commit()
}

func (r *repository) CountByStory(ctx context.Context, storyID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments WHERE story_id = $1`, storyID)
	return count, err
}
