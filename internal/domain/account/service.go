package account

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pagewise/pagewise-api/internal/pkg/imaging"
	"github.com/pagewise/pagewise-api/internal/pkg/storage"
)

// GraphCleaner removes an account from the social graph when the account is
// destroyed (edges plus its appearances in other accounts' cached lists)
type GraphCleaner interface {
	PurgeAccount(ctx context.Context, accountID uuid.UUID) error
}

// Service handles account business logic
type Service struct {
	repo      Repository
	storage   storage.Storage
	processor *imaging.Processor
	cleaner   GraphCleaner
}

// NewService creates account service
func NewService(repo Repository, store storage.Storage, processor *imaging.Processor, cleaner GraphCleaner) *Service {
	return &Service{
		repo:      repo,
		storage:   store,
		processor: processor,
		cleaner:   cleaner,
	}
}

// GetProfile returns the public profile of an account
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileResponse, error) {
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	return newProfileResponse(acc), nil
}

// UpdateProfile updates nickname and/or status message
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*ProfileResponse, error) {
	if req.Nickname != "" {
		if err := s.repo.UpdateNickname(ctx, id, req.Nickname); err != nil {
			return nil, err
		}
	}
	if req.StatusMessage != nil {
		if err := s.repo.UpdateStatusMessage(ctx, id, *req.StatusMessage); err != nil {
			return nil, err
		}
	}
	return s.GetProfile(ctx, id)
}

// UploadAvatar processes and stores a new avatar image, then records its URL
func (s *Service) UploadAvatar(ctx context.Context, id uuid.UUID, reader io.Reader, filename string) (*ProfileResponse, error) {
	if !imaging.ValidateType(filename) {
		return nil, fmt.Errorf("unsupported image type: %s", filename)
	}

	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}

	processed, err := s.processor.Process(reader, filename)
	if err != nil {
		return nil, fmt.Errorf("process avatar: %w", err)
	}

	key := fmt.Sprintf("avatars/%s/%d%s", id, time.Now().Unix(), imaging.ExtForContentType(processed.ContentType))
	if err := s.storage.Save(ctx, key, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}

	url := s.storage.GetURL(key)
	if err := s.repo.UpdateAvatarURL(ctx, id, url); err != nil {
		return nil, err
	}

	log.Info().Str("account_id", id.String()).Str("avatar_url", url).Msg("avatar updated")
	return s.GetProfile(ctx, id)
}

// Search returns accounts whose nickname contains the given substring,
// excluding the caller
func (s *Service) Search(ctx context.Context, nickname string, excludeID uuid.UUID) ([]*Summary, error) {
	return s.repo.SearchByNickname(ctx, nickname, excludeID)
}

// Destroy deletes the account and purges it from the social graph. Graph
// cleanup runs first so no edge or cached list entry survives the account.
func (s *Service) Destroy(ctx context.Context, id uuid.UUID) error {
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if acc == nil {
		return ErrAccountNotFound
	}

	if err := s.cleaner.PurgeAccount(ctx, id); err != nil {
		return fmt.Errorf("purge account from graph: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("account_id", id.String()).Msg("account destroyed")
	return nil
}
