package comment

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pagewise/pagewise-api/internal/domain/account"
	"github.com/pagewise/pagewise-api/internal/domain/story"
	"github.com/pagewise/pagewise-api/internal/pkg/pagination"
)

// DefaultReplyLimit is how many leading replies each root comment carries
// in a listing when the client does not ask for more.
const DefaultReplyLimit = 3

// StoryCatalog is the slice of the story repository the comment service needs
type StoryCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*story.Story, error)
}

// AccountDirectory resolves author IDs to profile summaries
type AccountDirectory interface {
	ListSummariesByIDs(ctx context.Context, ids []uuid.UUID, limit, offset int) ([]*account.Summary, error)
}

// Service handles comment business logic
type Service struct {
	repo     Repository
	stories  StoryCatalog
	accounts AccountDirectory
}

// NewService creates comment service
func NewService(repo Repository, stories StoryCatalog, accounts AccountDirectory) *Service {
	return &Service{repo: repo, stories: stories, accounts: accounts}
}

// Create adds a comment or a single-level reply to a visible story
func (s *Service) Create(ctx context.Context, authorID uuid.UUID, req *CreateRequest) (*Response, error) {
	target, err := s.stories.GetByID(ctx, req.StoryID)
	if err != nil {
		return nil, err
	}
	if target == nil || !target.VisibleTo(authorID) {
		return nil, ErrStoryNotFound
	}

	var parentID uuid.NullUUID
	if req.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrParentNotFound
		}
		if parent.IsReply() {
			return nil, ErrNestedReply
		}
		if parent.StoryID != req.StoryID {
			return nil, ErrParentMismatch
		}
		parentID = uuid.NullUUID{UUID: parent.ID, Valid: true}
	}

	comment := &Comment{
		ID:       uuid.New(),
		StoryID:  req.StoryID,
		AuthorID: authorID,
		ParentID: parentID,
		Content:  req.Content,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	log.Info().
		Str("comment_id", comment.ID.String()).
		Str("story_id", comment.StoryID.String()).
		Bool("reply", comment.IsReply()).
		Msg("comment created")

	authors, err := s.summariesFor(ctx, []*Comment{comment})
	if err != nil {
		return nil, err
	}
	return newResponse(comment, authors[authorID]), nil
}

// ListByStory returns one page of root comments, newest first, each carrying
// its earliest replies up to replyLimit.
func (s *Service) ListByStory(ctx context.Context, viewerID, storyID uuid.UUID, params pagination.Params, replyLimit int) (*ListResponse, error) {
	target, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if target == nil || !target.VisibleTo(viewerID) {
		return nil, ErrStoryNotFound
	}

	if replyLimit <= 0 {
		replyLimit = DefaultReplyLimit
	}

	roots, total, err := s.repo.ListRoots(ctx, storyID, params.Limit(), params.Offset())
	if err != nil {
		return nil, err
	}

	all := make([]*Comment, 0, len(roots))
	all = append(all, roots...)
	replies := make(map[uuid.UUID][]*Comment, len(roots))
	for _, root := range roots {
		rs, err := s.repo.ListReplies(ctx, root.ID, replyLimit)
		if err != nil {
			return nil, err
		}
		replies[root.ID] = rs
		all = append(all, rs...)
	}

	authors, err := s.summariesFor(ctx, all)
	if err != nil {
		return nil, err
	}

	items := make([]*Response, 0, len(roots))
	for _, root := range roots {
		resp := newResponse(root, authors[root.AuthorID])
		for _, reply := range replies[root.ID] {
			resp.Replies = append(resp.Replies, newResponse(reply, authors[reply.AuthorID]))
		}
		items = append(items, resp)
	}

	return &ListResponse{
		Items:      items,
		Page:       params.Page,
		TotalPages: pagination.TotalPages(total, params.PageSize),
		PageSize:   params.PageSize,
		TotalItems: total,
	}, nil
}

// Delete removes an owned comment together with its replies
func (s *Service) Delete(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.AuthorID != userID {
		return ErrNotAuthor
	}

	return s.repo.DeleteWithReplies(ctx, commentID)
}

// CountByStory returns how many comments a story has, replies included
func (s *Service) CountByStory(ctx context.Context, storyID uuid.UUID) (int, error) {
	target, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return 0, err
	}
	if target == nil {
		return 0, ErrStoryNotFound
	}
	return s.repo.CountByStory(ctx, storyID)
}

func (s *Service) summariesFor(ctx context.Context, comments []*Comment) (map[uuid.UUID]*account.Summary, error) {
	seen := make(map[uuid.UUID]struct{}, len(comments))
	ids := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.AuthorID]; ok {
			continue
		}
		seen[c.AuthorID] = struct{}{}
		ids = append(ids, c.AuthorID)
	}

	summaries, err := s.accounts.ListSummariesByIDs(ctx, ids, len(ids), 0)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*account.Summary, len(summaries))
	for _, sum := range summaries {
		byID[sum.ID] = sum
	}
	return byID, nil
}
