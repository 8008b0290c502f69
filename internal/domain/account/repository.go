package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines account data access
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UpdateNickname(ctx context.Context, id uuid.UUID, nickname string) error
	UpdateStatusMessage(ctx context.Context, id uuid.UUID, statusMessage string) error
	UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Read-only access to the cached neighbor-ID lists
	GetNeighborIDs(ctx context.Context, id uuid.UUID) (followers, following []uuid.UUID, err error)

	// ListSummariesByIDs returns public summaries for the given IDs ordered
	// by nickname, sliced by limit/offset
	ListSummariesByIDs(ctx context.Context, ids []uuid.UUID, limit, offset int) ([]*Summary, error)

	// SearchByNickname returns summaries whose nickname contains the given
	// substring (case-insensitive), excluding one account
	SearchByNickname(ctx context.Context, nickname string, excludeID uuid.UUID) ([]*Summary, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new account repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const accountColumns = `id, email, password_hash, nickname, avatar_url, status_message, followers, following, created_at, updated_at`

func (r *repository) Create(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, nickname, avatar_url, status_message, followers, following)
		VALUES ($1, $2, $3, $4, $5, $6, '{}', '{}')
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Nickname,
		account.AvatarURL,
		account.StatusMsg,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Constraint, "nickname") {
				return ErrNicknameTaken
			}
			return ErrEmailExists
		}
		return fmt.Errorf("account repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *repository) scanOne(row *sql.Row) (*Account, error) {
	var a Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.Nickname,
		&a.AvatarURL,
		&a.StatusMsg,
		pq.Array(&a.Followers),
		pq.Array(&a.Following),
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) UpdateNickname(ctx context.Context, id uuid.UUID, nickname string) error {
	query := `UPDATE accounts SET nickname = $2, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, nickname)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrNicknameTaken
		}
		return err
	}
	return requireRow(res)
}

func (r *repository) UpdateStatusMessage(ctx context.Context, id uuid.UUID, statusMessage string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET status_message = $2, updated_at = now() WHERE id = $1`, id, statusMessage)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET avatar_url = $2, updated_at = now() WHERE id = $1`, id, avatarURL)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) GetNeighborIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	var followers, following []uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`SELECT followers, following FROM accounts WHERE id = $1`, id).
		Scan(pq.Array(&followers), pq.Array(&following))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrAccountNotFound
		}
		return nil, nil, err
	}
	return followers, following, nil
}

func (r *repository) ListSummariesByIDs(ctx context.Context, ids []uuid.UUID, limit, offset int) ([]*Summary, error) {
	if len(ids) == 0 {
		return []*Summary{}, nil
	}

	query := `
		SELECT id, nickname, COALESCE(avatar_url, '') AS avatar_url, COALESCE(status_message, '') AS status_message
		FROM accounts
		WHERE id = ANY($1)
		ORDER BY nickname
		LIMIT $2 OFFSET $3
	`

	summaries := []*Summary{}
	err := r.db.SelectContext(ctx, &summaries, query, pq.Array(ids), limit, offset)
	return summaries, err
}

func (r *repository) SearchByNickname(ctx context.Context, nickname string, excludeID uuid.UUID) ([]*Summary, error) {
	query := `
		SELECT id, nickname, COALESCE(avatar_url, '') AS avatar_url, COALESCE(status_message, '') AS status_message
		FROM accounts
		WHERE id <> $1 AND nickname ILIKE '%' || $2 || '%'
		ORDER BY nickname
	`

	summaries := []*Summary{}
	err := r.db.SelectContext(ctx, &summaries, query, excludeID, nickname)
	return summaries, err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}
