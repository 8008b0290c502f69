package folder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pagewise/pagewise-api/internal/domain/story"
)

// Repository defines folder data access
type Repository interface {
	Create(ctx context.Context, folder *Folder) error
	GetByID(ctx context.Context, id uuid.UUID) (*Folder, error)
	Update(ctx context.Context, folder *Folder) error
	DeleteWithMemberships(ctx context.Context, id uuid.UUID) error
	ListPublic(ctx context.Context, limit, offset int) ([]*Folder, int, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, publicOnly bool, limit, offset int) ([]*Folder, int, error)
	AddStory(ctx context.Context, folderID, storyID uuid.UUID) error
	RemoveStory(ctx context.Context, folderID, storyID uuid.UUID) error
	ListStories(ctx context.Context, folderID uuid.UUID, publicOnly bool, limit, offset int) ([]*story.Story, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new folder repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, folder *Folder) error {
	query := `
		INSERT INTO folders (id, owner_id, name, description, image_url, is_public)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		folder.ID,
		folder.OwnerID,
		folder.Name,
		folder.Description,
		folder.ImageURL,
		folder.IsPublic,
	).Scan(&folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		return mapFolderWriteError(err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Folder, error) {
	var folder Folder
	err := r.db.GetContext(ctx, &folder, `SELECT * FROM folders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &folder, nil
}

func (r *repository) Update(ctx context.Context, folder *Folder) error {
	query := `
		UPDATE folders
		SET name = $2, description = $3, image_url = $4, is_public = $5, updated_at = now()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		folder.ID,
		folder.Name,
		folder.Description,
		folder.ImageURL,
		folder.IsPublic,
	)
	if err != nil {
		return mapFolderWriteError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFolderNotFound
	}
	return nil
}

// DeleteWithMemberships removes a folder and its story memberships in one
// transaction so no membership row is left pointing at a missing folder.
func (r *repository) DeleteWithMemberships(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("folder repository begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM folder_stories WHERE folder_id = $1`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFolderNotFound
	}

	return tx.Commit()
}

func (r *repository) ListPublic(ctx context.Context, limit, offset int) ([]*Folder, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM folders WHERE is_public`); err != nil {
		return nil, 0, err
	}

	folders := []*Folder{}
	err := r.db.SelectContext(ctx, &folders,
		`SELECT * FROM folders WHERE is_public ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	return folders, total, err
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, publicOnly bool, limit, offset int) ([]*Folder, int, error) {
	filter := ``
	if publicOnly {
		filter = ` AND is_public`
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM folders WHERE owner_id = $1`+filter, ownerID); err != nil {
		return nil, 0, err
	}

	folders := []*Folder{}
	err := r.db.SelectContext(ctx, &folders,
		`SELECT * FROM folders WHERE owner_id = $1`+filter+` ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		ownerID, limit, offset)
	return folders, total, err
}

func (r *repository) AddStory(ctx context.Context, folderID, storyID uuid.UUID) error {
	query := `
		INSERT INTO folder_stories (folder_id, story_id)
		VALUES ($1, $2)
		ON CONFLICT (folder_id, story_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, folderID, storyID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrStoryNotFound
		}
		return fmt.Errorf("folder repository add story: %w", err)
	}
	return nil
}

func (r *repository) RemoveStory(ctx context.Context, folderID, storyID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM folder_stories WHERE folder_id = $1 AND story_id = $2`, folderID, storyID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStoryNotInFolder
	}
	return nil
}

func (r *repository) ListStories(ctx context.Context, folderID uuid.UUID, publicOnly bool, limit, offset int) ([]*story.Story, int, error) {
	filter := ``
	if publicOnly {
		filter = ` AND s.is_public`
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `
		SELECT COUNT(*) FROM stories s
		JOIN folder_stories fs ON fs.story_id = s.id
		WHERE fs.folder_id = $1`+filter, folderID); err != nil {
		return nil, 0, err
	}

	stories := []*story.Story{}
	err := r.db.SelectContext(ctx, &stories, `
		SELECT s.* FROM stories s
		JOIN folder_stories fs ON fs.story_id = s.id
		WHERE fs.folder_id = $1`+filter+`
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`, folderID, limit, offset)
	return stories, total, err
}

func mapFolderWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return ErrFolderExists
		case "23503":
			return ErrFolderNotFound
		}
	}
	return fmt.Errorf("folder repository write: %w", err)
}
