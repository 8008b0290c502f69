package relationship

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pagewise/pagewise-api/internal/domain/account"
)

// Repository defines edge storage plus the composite write operations the
// coordinator runs. Each composite operation executes the edge write and the
// affected cached-list writes inside a single database transaction; no
// partial state is ever visible outside of it.
type Repository interface {
	// FindEdge returns the edge for the ordered pair, or nil if absent
	FindEdge(ctx context.Context, actorID, targetID uuid.UUID) (*Edge, error)

	// InsertFollow creates a FOLLOWING edge for a pair in state NONE and
	// appends the pair to both cached lists. A racing duplicate insert
	// surfaces as ErrAlreadyFollowing via the pair-uniqueness constraint.
	InsertFollow(ctx context.Context, actorID, targetID uuid.UUID) (*Edge, error)

	// ReactivateFollow flips a BLOCKED edge back to FOLLOWING and re-adds
	// the pair to both cached lists. Returns ErrEdgeConflict if the edge is
	// no longer BLOCKED.
	ReactivateFollow(ctx context.Context, actorID, targetID uuid.UUID) (*Edge, error)

	// DeleteFollow removes a FOLLOWING edge and strips the pair from both
	// cached lists. Returns ErrFollowNotFound if no such edge exists.
	DeleteFollow(ctx context.Context, actorID, targetID uuid.UUID) error

	// UpsertBlock sets the pair's edge to BLOCKED regardless of prior state
	// (create if absent, overwrite if FOLLOWING; repeat blocks are no-ops)
	// and strips the pair from both cached lists.
	UpsertBlock(ctx context.Context, actorID, targetID uuid.UUID) (*Edge, error)

	// DeleteBlock removes a BLOCKED edge, returning the pair to state NONE.
	// The cached lists are untouched: a blocked pair is never listed.
	DeleteBlock(ctx context.Context, actorID, targetID uuid.UUID) (*Edge, error)

	// FindBlockedBy returns summaries of every account blocked by the actor
	FindBlockedBy(ctx context.Context, actorID uuid.UUID) ([]*account.Summary, error)

	// CountByRole counts edges with the given status where the account is
	// on the given side of the pair
	CountByRole(ctx context.Context, accountID uuid.UUID, role Role, status Status) (int, error)

	// Purge removes every edge touching the account and strips its ID from
	// all other accounts' cached lists, in one transaction
	Purge(ctx context.Context, accountID uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new relationship repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) beginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

func (r *repository) FindEdge(ctx context.Context, actorID, targetID uuid.UUID) (*Edge, error) {
	var edge Edge
	query := `
		SELECT actor_id, target_id, status, created_at, updated_at
		FROM relationships
		WHERE actor_id = $1 AND target_id = $2
	`
	err := r.db.GetContext(ctx, &edge, query, actorID, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &edge, nil
}

func (r *repository) InsertFollow(ctx context.Context, actorID, targetID uuid.UUID) (*Edge, error) {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var edge Edge
	query := `
		INSERT INTO relationships (actor_id, target_id, status)
		VALUES ($1, $2, 'FOLLOWING')
		RETURNING actor_id, target_id, status, created_at, updated_at
	`
	if err := tx.GetContext(ctx, &edge, query, actorID, targetID); err != nil {
		return nil, mapEdgeWriteError(err)
	}

	if err := addToLists(ctx, tx, actorID, targetID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &edge, nil
}

func (r *repository) ReactivateFollow(ctx context.Context, actorID, targetID uuid.UUID) (*Edge, error) {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var edge Edge
	query := `
		UPDATE relationships
		SET status = 'FOLLOWING', updated_at = now()
		WHERE actor_id = $1 AND target_id = $2 AND status = 'BLOCKED'
		RETURNING actor_id, target_id, status, created_at, updated_at
	`
	if err := tx.GetContext(ctx, &edge, query, actorID, targetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The block vanished between the coordinator's state read and
			// this write; the pair is no longer in the observed state.
			return nil, ErrEdgeConflict
		}
		return nil, err
	}

	if err := addToLists(ctx, tx, actorID, targetID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &edge, nil
}

func (r *repository) DeleteFollow(ctx context.Context, actorID, targetID uuid.UUID) error {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM relationships WHERE actor_id = $1 AND target_id = $2 AND status = 'FOLLOWING'`,
		actorID, targetID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrFollowNotFound
	}

	if err := removeFromLists(ctx, tx, actorID, targetID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) UpsertBlock(ctx context.Context, actorID, targetID uuid.UUID) (*Edge, error) {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var edge Edge
	query := `
		INSERT INTO relationships (actor_id, target_id, status)
		VALUES ($1, $2, 'BLOCKED')
		ON CONFLICT (actor_id, target_id)
		DO UPDATE SET status = 'BLOCKED', updated_at = now()
		RETURNING actor_id, target_id, status, created_at, updated_at
	`
	if err := tx.GetContext(ctx, &edge, query, actorID, targetID); err != nil {
		return nil, mapEdgeWriteError(err)
	}

	// A block always revokes any active follow
	if err := removeFromLists(ctx, tx, actorID, targetID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &edge, nil
}

func (r *repository) DeleteBlock(ctx context.Context, actorID, targetID uuid.UUID) (*Edge, error) {
	var edge Edge
	query := `
		DELETE FROM relationships
		WHERE actor_id = $1 AND target_id = $2 AND status = 'BLOCKED'
		RETURNING actor_id, target_id, status, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &edge, query, actorID, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}
	return &edge, nil
}

func (r *repository) FindBlockedBy(ctx context.Context, actorID uuid.UUID) ([]*account.Summary, error) {
	query := `
		SELECT a.id, a.nickname, COALESCE(a.avatar_url, '') AS avatar_url, COALESCE(a.status_message, '') AS status_message
		FROM relationships r
		JOIN accounts a ON a.id = r.target_id
		WHERE r.actor_id = $1 AND r.status = 'BLOCKED'
		ORDER BY a.nickname
	`

	summaries := []*account.Summary{}
	err := r.db.SelectContext(ctx, &summaries, query, actorID)
	return summaries, err
}

func (r *repository) CountByRole(ctx context.Context, accountID uuid.UUID, role Role, status Status) (int, error) {
	column := "actor_id"
	if role == RoleTarget {
		column = "target_id"
	}

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM relationships WHERE %s = $1 AND status = $2`, column)
	err := r.db.GetContext(ctx, &count, query, accountID, status)
	return count, err
}

func (r *repository) Purge(ctx context.Context, accountID uuid.UUID) error {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM relationships WHERE actor_id = $1 OR target_id = $1`, accountID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET followers = array_remove(followers, $1),
		    following = array_remove(following, $1),
		    updated_at = now()
		WHERE $1 = ANY(followers) OR $1 = ANY(following)
	`, accountID); err != nil {
		return err
	}

	return tx.Commit()
}

// addToLists appends target to actor.following and actor to target.followers.
// Set-like: an already-present ID is left alone, never duplicated.
func addToLists(ctx context.Context, tx *sqlx.Tx, actorID, targetID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET following = array_append(following, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(following))
	`, actorID, targetID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET followers = array_append(followers, $1), updated_at = now()
		WHERE id = $2 AND NOT ($1 = ANY(followers))
	`, actorID, targetID); err != nil {
		return err
	}

	return nil
}

// removeFromLists strips the pair from both cached lists if present
func removeFromLists(ctx context.Context, tx *sqlx.Tx, actorID, targetID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET following = array_remove(following, $2), updated_at = now()
		WHERE id = $1
	`, actorID, targetID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET followers = array_remove(followers, $1), updated_at = now()
		WHERE id = $2
	`, actorID, targetID); err != nil {
		return err
	}

	return nil
}

// mapEdgeWriteError converts constraint violations into domain errors
func mapEdgeWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation on (actor_id, target_id)
			return ErrAlreadyFollowing
		case "23503": // foreign_key_violation: actor or target gone
			return ErrAccountNotFound
		case "23514": // check_violation: actor_id <> target_id
			return ErrSelfRelation
		}
	}
	return err
}
