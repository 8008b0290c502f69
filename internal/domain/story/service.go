package story

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pagewise/pagewise-api/internal/pkg/pagination"
)

// Service handles story business logic
type Service struct {
	repo Repository
}

// NewService creates story service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new story for the author
func (s *Service) Create(ctx context.Context, authorID uuid.UUID, req *CreateRequest) (*Response, error) {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	story := &Story{
		ID:         uuid.New(),
		AuthorID:   authorID,
		BookTitle:  req.BookTitle,
		BookAuthor: req.BookAuthor,
		Quote:      req.Quote,
		Content:    req.Content,
		ImageURLs:  req.ImageURLs,
		Keywords:   dedupe(req.Keywords),
		IsPublic:   isPublic,
	}

	if err := s.repo.Create(ctx, story); err != nil {
		return nil, err
	}

	log.Info().Str("story_id", story.ID.String()).Str("author_id", authorID.String()).Msg("story created")

	created, err := s.repo.GetByID(ctx, story.ID)
	if err != nil {
		return nil, err
	}
	return NewResponse(created), nil
}

// Get returns one story, honoring its visibility
func (s *Service) Get(ctx context.Context, viewerID, id uuid.UUID) (*Response, error) {
	story, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if story == nil || !story.VisibleTo(viewerID) {
		return nil, ErrStoryNotFound
	}
	return NewResponse(story), nil
}

// Update modifies an owned story
func (s *Service) Update(ctx context.Context, authorID, id uuid.UUID, req *UpdateRequest) (*Response, error) {
	story, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, ErrStoryNotFound
	}
	if story.AuthorID != authorID {
		return nil, ErrNotOwner
	}

	if req.BookTitle != "" {
		story.BookTitle = req.BookTitle
	}
	if req.BookAuthor != "" {
		story.BookAuthor = req.BookAuthor
	}
	if req.Quote != "" {
		story.Quote = req.Quote
	}
	if req.Content != "" {
		story.Content = req.Content
	}
	if req.ImageURLs != nil {
		story.ImageURLs = req.ImageURLs
	}
	if req.Keywords != nil {
		story.Keywords = dedupe(req.Keywords)
	}
	if req.IsPublic != nil {
		story.IsPublic = *req.IsPublic
	}

	if err := s.repo.Update(ctx, story); err != nil {
		return nil, err
	}
	return NewResponse(story), nil
}

// Delete removes an owned story
func (s *Service) Delete(ctx context.Context, authorID, id uuid.UUID) error {
	story, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if story == nil {
		return ErrStoryNotFound
	}
	if story.AuthorID != authorID {
		return ErrNotOwner
	}

	return s.repo.Delete(ctx, id)
}

// ListByAuthor returns one page of an author's stories. Private stories are
// included only when the viewer is the author.
func (s *Service) ListByAuthor(ctx context.Context, viewerID, authorID uuid.UUID, params pagination.Params) (*ListResponse, error) {
	publicOnly := viewerID != authorID
	stories, total, err := s.repo.ListByAuthor(ctx, authorID, publicOnly, params.Limit(), params.Offset())
	if err != nil {
		return nil, err
	}
	return newListResponse(stories, total, params), nil
}

// ListPublic returns one page of the public feed, newest first
func (s *Service) ListPublic(ctx context.Context, params pagination.Params) (*ListResponse, error) {
	stories, total, err := s.repo.ListPublic(ctx, params.Limit(), params.Offset())
	if err != nil {
		return nil, err
	}
	return newListResponse(stories, total, params), nil
}

// Count returns how many stories an author has
func (s *Service) Count(ctx context.Context, authorID uuid.UUID) (int, error) {
	return s.repo.CountByAuthor(ctx, authorID)
}

func newListResponse(stories []*Story, total int, params pagination.Params) *ListResponse {
	items := make([]*Response, 0, len(stories))
	for _, st := range stories {
		items = append(items, NewResponse(st))
	}
	return &ListResponse{
		Items:      items,
		Page:       params.Page,
		TotalPages: pagination.TotalPages(total, params.PageSize),
		PageSize:   params.PageSize,
		TotalItems: total,
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
