package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pagewise/pagewise-api/internal/domain/account"
	"github.com/pagewise/pagewise-api/internal/domain/story"
)

// AccountCatalog is the slice of the account repository the report service needs
type AccountCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
	ListSummariesByIDs(ctx context.Context, ids []uuid.UUID, limit, offset int) ([]*account.Summary, error)
}

// StoryCatalog is the slice of the story repository the report service needs
type StoryCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*story.Story, error)
}

// Service handles report business logic
type Service struct {
	repo     Repository
	accounts AccountCatalog
	stories  StoryCatalog
}

// NewService creates report service
func NewService(repo Repository, accounts AccountCatalog, stories StoryCatalog) *Service {
	return &Service{repo: repo, accounts: accounts, stories: stories}
}

// ReportAccount files a report against another account. Filing a second
// report against the same account is rejected.
func (s *Service) ReportAccount(ctx context.Context, reporterID uuid.UUID, req *CreateRequest) (*Response, error) {
	target, err := s.accounts.GetByID(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrTargetNotFound
	}

	return s.file(ctx, reporterID, req, TargetAccount)
}

// ReportStory files a report against a story the reporter can see
func (s *Service) ReportStory(ctx context.Context, reporterID uuid.UUID, req *CreateRequest) (*Response, error) {
	target, err := s.stories.GetByID(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}
	if target == nil || !target.VisibleTo(reporterID) {
		return nil, ErrTargetNotFound
	}

	return s.file(ctx, reporterID, req, TargetStory)
}

// ListAccountReports returns the reporter's account reports, newest first,
// each carrying the reported account's summary when it still exists
func (s *Service) ListAccountReports(ctx context.Context, reporterID uuid.UUID) ([]*Response, error) {
	reports, err := s.repo.ListByReporter(ctx, reporterID, TargetAccount)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(reports))
	for _, rep := range reports {
		ids = append(ids, rep.TargetID)
	}
	summaries, err := s.accounts.ListSummariesByIDs(ctx, ids, len(ids), 0)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*account.Summary, len(summaries))
	for _, sum := range summaries {
		byID[sum.ID] = sum
	}

	items := make([]*Response, 0, len(reports))
	for _, rep := range reports {
		resp := newResponse(rep)
		resp.TargetAccount = byID[rep.TargetID]
		items = append(items, resp)
	}
	return items, nil
}

// ListStoryReports returns the reporter's story reports, newest first, each
// carrying the reported story when the reporter can still see it
func (s *Service) ListStoryReports(ctx context.Context, reporterID uuid.UUID) ([]*Response, error) {
	reports, err := s.repo.ListByReporter(ctx, reporterID, TargetStory)
	if err != nil {
		return nil, err
	}

	items := make([]*Response, 0, len(reports))
	for _, rep := range reports {
		resp := newResponse(rep)
		target, err := s.stories.GetByID(ctx, rep.TargetID)
		if err != nil {
			return nil, err
		}
		if target != nil && target.VisibleTo(reporterID) {
			resp.TargetStory = story.NewResponse(target)
		}
		items = append(items, resp)
	}
	return items, nil
}

func (s *Service) file(ctx context.Context, reporterID uuid.UUID, req *CreateRequest, targetType string) (*Response, error) {
	report := &Report{
		ID:         uuid.New(),
		ReporterID: reporterID,
		TargetID:   req.TargetID,
		TargetType: targetType,
		Reason:     req.Reason,
		Status:     StatusPending,
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	log.Info().
		Str("report_id", report.ID.String()).
		Str("target_type", targetType).
		Str("target_id", req.TargetID.String()).
		Msg("report filed")

	return newResponse(report), nil
}
