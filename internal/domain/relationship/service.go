package relationship

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pagewise/pagewise-api/internal/domain/account"
	"github.com/pagewise/pagewise-api/internal/pkg/pagination"
)

// AccountDirectory is the account-lookup collaborator the coordinator needs:
// existence checks, snapshots, and read access to the cached neighbor lists.
// account.Repository satisfies it.
type AccountDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetNeighborIDs(ctx context.Context, id uuid.UUID) (followers, following []uuid.UUID, err error)
	ListSummariesByIDs(ctx context.Context, ids []uuid.UUID, limit, offset int) ([]*account.Summary, error)
}

// Service is the relationship coordinator. It owns the per-pair state
// machine over NONE, FOLLOWING and BLOCKED and is the only component that
// mutates the edge store or the cached neighbor lists; every mutation runs
// the edge write and both list writes through one repository transaction.
type Service struct {
	repo     Repository
	accounts AccountDirectory
}

// NewService creates relationship service
func NewService(repo Repository, accounts AccountDirectory) *Service {
	return &Service{repo: repo, accounts: accounts}
}

// Follow transitions the (actor, target) pair to FOLLOWING. From NONE it
// creates the edge; from BLOCKED it reactivates the pair; from FOLLOWING it
// fails with ErrAlreadyFollowing. Returns the target account snapshot.
func (s *Service) Follow(ctx context.Context, actorID, targetID uuid.UUID) (*account.ProfileResponse, error) {
	if actorID == targetID {
		return nil, ErrSelfRelation
	}
	if err := s.requireAccounts(ctx, actorID, targetID); err != nil {
		return nil, err
	}

	edge, err := s.repo.FindEdge(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	switch {
	case edge == nil:
		if _, err := s.repo.InsertFollow(ctx, actorID, targetID); err != nil {
			return nil, err
		}
	case edge.IsBlocked():
		if _, err := s.repo.ReactivateFollow(ctx, actorID, targetID); err != nil {
			return nil, err
		}
	default:
		return nil, ErrAlreadyFollowing
	}

	log.Info().
		Str("actor_id", actorID.String()).
		Str("target_id", targetID.String()).
		Msg("follow established")

	return s.snapshot(ctx, targetID)
}

// Unfollow removes a FOLLOWING edge, returning the pair to NONE. Fails with
// ErrFollowNotFound if the pair is not in state FOLLOWING.
func (s *Service) Unfollow(ctx context.Context, actorID, targetID uuid.UUID) (*account.ProfileResponse, error) {
	if err := s.repo.DeleteFollow(ctx, actorID, targetID); err != nil {
		return nil, err
	}

	log.Info().
		Str("actor_id", actorID.String()).
		Str("target_id", targetID.String()).
		Msg("follow removed")

	return s.snapshot(ctx, targetID)
}

// SetBlocked blocks or unblocks the target. Blocking upserts the edge to
// BLOCKED from any prior state (repeat blocks are idempotent) and revokes an
// active follow. Unblocking deletes a BLOCKED edge; it does not restore a
// follow, the actor must call Follow again.
func (s *Service) SetBlocked(ctx context.Context, actorID, targetID uuid.UUID, blocked bool) (*EdgeSnapshot, error) {
	if !blocked {
		edge, err := s.repo.DeleteBlock(ctx, actorID, targetID)
		if err != nil {
			return nil, err
		}

		log.Info().
			Str("actor_id", actorID.String()).
			Str("target_id", targetID.String()).
			Msg("block removed")

		return newEdgeSnapshot(edge), nil
	}

	if actorID == targetID {
		return nil, ErrSelfRelation
	}
	if err := s.requireAccounts(ctx, actorID, targetID); err != nil {
		return nil, err
	}

	edge, err := s.repo.UpsertBlock(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("actor_id", actorID.String()).
		Str("target_id", targetID.String()).
		Msg("block established")

	return newEdgeSnapshot(edge), nil
}

// CheckStatus reports whether the actor follows and/or blocks the target.
// Non-transactional: following comes from the actor's cached list, blocked
// from the edge store, so a racing commit may be observed between the two.
func (s *Service) CheckStatus(ctx context.Context, actorID, targetID uuid.UUID) (*StatusResponse, error) {
	_, following, err := s.accounts.GetNeighborIDs(ctx, actorID)
	if err != nil {
		if err == account.ErrAccountNotFound {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	edge, err := s.repo.FindEdge(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	return &StatusResponse{
		Following: containsID(following, targetID),
		Blocked:   edge != nil && edge.IsBlocked(),
	}, nil
}

// ListFollowers returns one page of follower summaries from the cached list
func (s *Service) ListFollowers(ctx context.Context, accountID uuid.UUID, params pagination.Params) (*ListResponse, error) {
	followers, _, err := s.neighborIDs(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, followers, params)
}

// ListFollowing returns one page of following summaries from the cached list
func (s *Service) ListFollowing(ctx context.Context, accountID uuid.UUID, params pagination.Params) (*ListResponse, error) {
	_, following, err := s.neighborIDs(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, following, params)
}

// Counts returns follower/following counts from the cached lists. This
// deliberately reflects the cache rather than the edge store.
func (s *Service) Counts(ctx context.Context, accountID uuid.UUID) (*CountsResponse, error) {
	followers, following, err := s.neighborIDs(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &CountsResponse{
		FollowersCount: len(followers),
		FollowingCount: len(following),
	}, nil
}

// ListBlocked returns summaries of every account the actor has blocked
func (s *Service) ListBlocked(ctx context.Context, actorID uuid.UUID) ([]*account.Summary, error) {
	return s.repo.FindBlockedBy(ctx, actorID)
}

// PurgeAccount removes the account from the graph: every edge where it is
// actor or target, and its ID in every other account's cached lists
func (s *Service) PurgeAccount(ctx context.Context, accountID uuid.UUID) error {
	if err := s.repo.Purge(ctx, accountID); err != nil {
		return err
	}

	log.Info().Str("account_id", accountID.String()).Msg("account purged from social graph")
	return nil
}

func (s *Service) requireAccounts(ctx context.Context, ids ...uuid.UUID) error {
	for _, id := range ids {
		acc, err := s.accounts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if acc == nil {
			return ErrAccountNotFound
		}
	}
	return nil
}

func (s *Service) snapshot(ctx context.Context, id uuid.UUID) (*account.ProfileResponse, error) {
	acc, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}

	followers := acc.Followers
	if followers == nil {
		followers = []uuid.UUID{}
	}
	following := acc.Following
	if following == nil {
		following = []uuid.UUID{}
	}

	return &account.ProfileResponse{
		ID:            acc.ID,
		Nickname:      acc.Nickname,
		AvatarURL:     acc.AvatarURL.String,
		StatusMessage: acc.StatusMsg.String,
		Followers:     followers,
		Following:     following,
	}, nil
}

func (s *Service) neighborIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	followers, following, err := s.accounts.GetNeighborIDs(ctx, accountID)
	if err != nil {
		if err == account.ErrAccountNotFound {
			return nil, nil, ErrAccountNotFound
		}
		return nil, nil, err
	}
	return followers, following, nil
}

func (s *Service) page(ctx context.Context, ids []uuid.UUID, params pagination.Params) (*ListResponse, error) {
	total := len(ids)

	// Page over the cached list itself so list order decides page membership
	start, end := params.Slice(total)
	pageIDs := ids[start:end]

	items, err := s.accounts.ListSummariesByIDs(ctx, pageIDs, len(pageIDs), 0)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Items:      items,
		Page:       params.Page,
		TotalPages: pagination.TotalPages(total, params.PageSize),
		PageSize:   params.PageSize,
		TotalItems: total,
	}, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
