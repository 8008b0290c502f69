package folder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pagewise/pagewise-api/internal/domain/account"
	"github.com/pagewise/pagewise-api/internal/domain/story"
	"github.com/pagewise/pagewise-api/internal/pkg/imaging"
	"github.com/pagewise/pagewise-api/internal/pkg/pagination"
	"github.com/pagewise/pagewise-api/internal/pkg/storage"
)

// StoryCatalog is the slice of the story repository the folder service needs
type StoryCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*story.Story, error)
}

// AccountDirectory resolves owner IDs to profile summaries
type AccountDirectory interface {
	ListSummariesByIDs(ctx context.Context, ids []uuid.UUID, limit, offset int) ([]*account.Summary, error)
}

// Service handles folder business logic
type Service struct {
	repo      Repository
	stories   StoryCatalog
	accounts  AccountDirectory
	storage   storage.Storage
	processor *imaging.Processor
}

// NewService creates folder service
func NewService(repo Repository, stories StoryCatalog, accounts AccountDirectory, store storage.Storage, processor *imaging.Processor) *Service {
	return &Service{
		repo:      repo,
		stories:   stories,
		accounts:  accounts,
		storage:   store,
		processor: processor,
	}
}

// Create stores a new folder for the owner. Folders default to public.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *CreateRequest) (*Response, error) {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	folder := &Folder{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		IsPublic:    isPublic,
	}

	if err := s.repo.Create(ctx, folder); err != nil {
		return nil, err
	}

	log.Info().Str("folder_id", folder.ID.String()).Str("owner_id", ownerID.String()).Msg("folder created")

	return s.respond(ctx, folder)
}

// Update modifies an owned folder
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, req *UpdateRequest) (*Response, error) {
	folder, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		folder.Name = strings.TrimSpace(req.Name)
	}
	if req.Description != nil {
		folder.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsPublic != nil {
		folder.IsPublic = *req.IsPublic
	}

	if err := s.repo.Update(ctx, folder); err != nil {
		return nil, err
	}
	return s.respond(ctx, folder)
}

// UploadImage processes and stores a new cover image, then records its URL
func (s *Service) UploadImage(ctx context.Context, ownerID, id uuid.UUID, reader io.Reader, filename string) (*Response, error) {
	if !imaging.ValidateType(filename) {
		return nil, fmt.Errorf("unsupported image type: %s", filename)
	}

	folder, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	processed, err := s.processor.Process(reader, filename)
	if err != nil {
		return nil, fmt.Errorf("process folder image: %w", err)
	}

	key := fmt.Sprintf("folders/%s/%d%s", id, time.Now().Unix(), imaging.ExtForContentType(processed.ContentType))
	if err := s.storage.Save(ctx, key, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		return nil, fmt.Errorf("store folder image: %w", err)
	}

	folder.ImageURL = s.storage.GetURL(key)
	if err := s.repo.Update(ctx, folder); err != nil {
		return nil, err
	}

	log.Info().Str("folder_id", id.String()).Str("image_url", folder.ImageURL).Msg("folder image updated")
	return s.respond(ctx, folder)
}

// Delete removes an owned folder along with its story memberships. The
// stories themselves are untouched.
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	return s.repo.DeleteWithMemberships(ctx, id)
}

// ListPublic returns one page of everyone's public folders, newest first
func (s *Service) ListPublic(ctx context.Context, params pagination.Params) (*ListResponse, error) {
	folders, total, err := s.repo.ListPublic(ctx, params.Limit(), params.Offset())
	if err != nil {
		return nil, err
	}
	return s.listResponse(ctx, folders, total, params)
}

// ListByOwner returns one page of an owner's folders. Private folders are
// included only when the viewer is the owner.
func (s *Service) ListByOwner(ctx context.Context, viewerID, ownerID uuid.UUID, params pagination.Params) (*ListResponse, error) {
	publicOnly := viewerID != ownerID
	folders, total, err := s.repo.ListByOwner(ctx, ownerID, publicOnly, params.Limit(), params.Offset())
	if err != nil {
		return nil, err
	}
	return s.listResponse(ctx, folders, total, params)
}

// AddStory puts one of the owner's stories into one of their folders.
// Re-adding a story already in the folder is a no-op.
func (s *Service) AddStory(ctx context.Context, ownerID, folderID, storyID uuid.UUID) error {
	if _, err := s.owned(ctx, ownerID, folderID); err != nil {
		return err
	}

	target, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrStoryNotFound
	}
	if target.AuthorID != ownerID {
		return ErrNotOwner
	}

	return s.repo.AddStory(ctx, folderID, storyID)
}

// RemoveStory takes a story out of an owned folder
func (s *Service) RemoveStory(ctx context.Context, ownerID, folderID, storyID uuid.UUID) error {
	if _, err := s.owned(ctx, ownerID, folderID); err != nil {
		return err
	}
	return s.repo.RemoveStory(ctx, folderID, storyID)
}

// ListStories returns one page of a folder's stories, newest first. Private
// stories are included only when the viewer owns the folder, and a private
// folder is invisible to everyone but its owner.
func (s *Service) ListStories(ctx context.Context, viewerID, folderID uuid.UUID, params pagination.Params) (*StoriesResponse, error) {
	folder, err := s.repo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder == nil || !folder.VisibleTo(viewerID) {
		return nil, ErrFolderNotFound
	}

	publicOnly := viewerID != folder.OwnerID
	stories, total, err := s.repo.ListStories(ctx, folderID, publicOnly, params.Limit(), params.Offset())
	if err != nil {
		return nil, err
	}

	items := make([]*story.Response, 0, len(stories))
	for _, st := range stories {
		items = append(items, story.NewResponse(st))
	}

	return &StoriesResponse{
		Items:      items,
		Page:       params.Page,
		TotalPages: pagination.TotalPages(total, params.PageSize),
		PageSize:   params.PageSize,
		TotalItems: total,
	}, nil
}

// owned fetches a folder and checks the caller owns it
func (s *Service) owned(ctx context.Context, ownerID, id uuid.UUID) (*Folder, error) {
	folder, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, ErrFolderNotFound
	}
	if folder.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return folder, nil
}

func (s *Service) respond(ctx context.Context, folder *Folder) (*Response, error) {
	owners, err := s.ownersFor(ctx, []*Folder{folder})
	if err != nil {
		return nil, err
	}
	return newResponse(folder, owners[folder.OwnerID]), nil
}

func (s *Service) listResponse(ctx context.Context, folders []*Folder, total int, params pagination.Params) (*ListResponse, error) {
	owners, err := s.ownersFor(ctx, folders)
	if err != nil {
		return nil, err
	}

	items := make([]*Response, 0, len(folders))
	for _, f := range folders {
		items = append(items, newResponse(f, owners[f.OwnerID]))
	}

	return &ListResponse{
		Items:      items,
		Page:       params.Page,
		TotalPages: pagination.TotalPages(total, params.PageSize),
		PageSize:   params.PageSize,
		TotalItems: total,
	}, nil
}

func (s *Service) ownersFor(ctx context.Context, folders []*Folder) (map[uuid.UUID]*account.Summary, error) {
	seen := make(map[uuid.UUID]struct{}, len(folders))
	ids := make([]uuid.UUID, 0, len(folders))
	for _, f := range folders {
		if _, ok := seen[f.OwnerID]; ok {
			continue
		}
		seen[f.OwnerID] = struct{}{}
		ids = append(ids, f.OwnerID)
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
