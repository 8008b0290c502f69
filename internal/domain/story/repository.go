package story

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines story data access
type Repository interface {
	Create(ctx context.Context, story *Story) error
	GetByID(ctx context.Context, id uuid.UUID) (*Story, error)
	Update(ctx context.Context, story *Story) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByAuthor(ctx context.Context, authorID uuid.UUID, publicOnly bool, limit, offset int) ([]*Story, int, error)
	ListPublic(ctx context.Context, limit, offset int) ([]*Story, int, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new story repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, story *Story) error {
	query := `
		INSERT INTO stories (id, author_id, book_title, book_author, quote, content, image_urls, keywords, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		story.ID,
		story.AuthorID,
		story.BookTitle,
		story.BookAuthor,
		story.Quote,
		story.Content,
		pq.Array(story.ImageURLs),
		pq.Array(story.Keywords),
		story.IsPublic,
	)
	if err != nil {
		return fmt.Errorf("story repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Story, error) {
	var story Story
	query := `SELECT * FROM stories WHERE id = $1`
	err := r.db.GetContext(ctx, &story, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &story, nil
}

func (r *repository) Update(ctx context.Context, story *Story) error {
	query := `
		UPDATE stories
		SET book_title = $2, book_author = $3, quote = $4, content = $5,
		    image_urls = $6, keywords = $7, is_public = $8, updated_at = now()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		story.ID,
		story.BookTitle,
		story.BookAuthor,
		story.Quote,
		story.Content,
		pq.Array(story.ImageURLs),
		pq.Array(story.Keywords),
		story.IsPublic,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStoryNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStoryNotFound
	}
	return nil
}

func (r *repository) ListByAuthor(ctx context.Context, authorID uuid.UUID, publicOnly bool, limit, offset int) ([]*Story, int, error) {
	filter := ``
	if publicOnly {
		filter = ` AND is_public`
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM stories WHERE author_id = $1`+filter, authorID); err != nil {
		return nil, 0, err
	}

	stories := []*Story{}
	err := r.db.SelectContext(ctx, &stories,
		`SELECT * FROM stories WHERE author_id = $1`+filter+` ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		authorID, limit, offset)
	return stories, total, err
}

func (r *repository) ListPublic(ctx context.Context, limit, offset int) ([]*Story, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM stories WHERE is_public`); err != nil {
		return nil, 0, err
	}

	stories := []*Story{}
	err := r.db.SelectContext(ctx, &stories,
		`SELECT * FROM stories WHERE is_public ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	return stories, total, err
}

func (r *repository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM stories WHERE author_id = $1`, authorID)
	return count, err
}
