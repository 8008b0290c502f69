package story

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pagewise/pagewise-api/internal/pkg/pagination"
)

type stubRepo struct {
	stories map[uuid.UUID]*Story
	clock   time.Time
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		stories: make(map[uuid.UUID]*Story),
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *stubRepo) Create(_ context.Context, story *Story) error {
	s.clock = s.clock.Add(time.Second)
	story.CreatedAt = s.clock
	story.UpdatedAt = s.clock
	clone := *story
	s.stories[story.ID] = &clone
	return nil
}

func (s *stubRepo) GetByID(_ context.Context, id uuid.UUID) (*Story, error) {
	st, ok := s.stories[id]
	if !ok {
		return nil, nil
	}
	clone := *st
	return &clone, nil
}

func (s *stubRepo) Update(_ context.Context, story *Story) error {
	if _, ok := s.stories[story.ID]; !ok {
		return ErrStoryNotFound
	}
	clone := *story
	s.stories[story.ID] = &clone
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.stories[id]; !ok {
		return ErrStoryNotFound
	}
	delete(s.stories, id)
	return nil
}

func (s *stubRepo) ListByAuthor(_ context.Context, authorID uuid.UUID, publicOnly bool, limit, offset int) ([]*Story, int, error) {
	matched := []*Story{}
	for _, st := range s.stories {
		if st.AuthorID != authorID {
			continue
		}
		if publicOnly && !st.IsPublic {
			continue
		}
		matched = append(matched, st)
	}
	return slicePage(matched, limit, offset)
}

func (s *stubRepo) ListPublic(_ context.Context, limit, offset int) ([]*Story, int, error) {
	matched := []*Story{}
	for _, st := range s.stories {
		if st.IsPublic {
			matched = append(matched, st)
		}
	}
	return slicePage(matched, limit, offset)
}

func (s *stubRepo) CountByAuthor(_ context.Context, authorID uuid.UUID) (int, error) {
	count := 0
	for _, st := range s.stories {
		if st.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func slicePage(matched []*Story, limit, offset int) ([]*Story, int, error) {
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := len(matched)
	if offset >= total {
		return []*Story{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func create(t *testing.T, svc *Service, authorID uuid.UUID, public bool) *Response {
	t.Helper()
	isPublic := public
	resp, err := svc.Create(context.Background(), authorID, &CreateRequest{
		BookTitle: "The Dispossessed",
		Quote:     "True journey is return.",
		Content:   "Reading notes.",
		IsPublic:  &isPublic,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return resp
}

func TestCreateDefaultsToPublic(t *testing.T) {
	svc := NewService(newStubRepo())

	resp, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{
		BookTitle: "Piranesi",
		Quote:     "The Beauty of the House is immeasurable.",
		Content:   "Notes.",
		Keywords:  []string{"fantasy", "fantasy", "labyrinth"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !resp.IsPublic {
		t.Error("story should default to public")
	}
	if len(resp.Keywords) != 2 {
		t.Errorf("keywords = %v, want deduplicated pair", resp.Keywords)
	}
}

func TestGetHonorsVisibility(t *testing.T) {
	svc := NewService(newStubRepo())
	owner := uuid.New()
	private := create(t, svc, owner, false)

	if _, err := svc.Get(context.Background(), owner, private.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.New(), private.ID); !errors.Is(err, ErrStoryNotFound) {
		t.Fatalf("stranger read: expected ErrStoryNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.Nil, private.ID); !errors.Is(err, ErrStoryNotFound) {
		t.Fatalf("anonymous read: expected ErrStoryNotFound, got %v", err)
	}
}

func TestUpdateRequiresOwnership(t *testing.T) {
	svc := NewService(newStubRepo())
	owner := uuid.New()
	st := create(t, svc, owner, true)

	if _, err := svc.Update(context.Background(), uuid.New(), st.ID, &UpdateRequest{Quote: "edited"}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	updated, err := svc.Update(context.Background(), owner, st.ID, &UpdateRequest{Quote: "edited"})
	if err != nil {
		t.Fatalf("owner Update: %v", err)
	}
	if updated.Quote != "edited" {
		t.Errorf("quote = %q, want edited", updated.Quote)
	}
	if updated.BookTitle != st.BookTitle {
		t.Errorf("untouched field changed: %q", updated.BookTitle)
	}
}

func TestDeleteRequiresOwnership(t *testing.T) {
	svc := NewService(newStubRepo())
	owner := uuid.New()
	st := create(t, svc, owner, true)

	if err := svc.Delete(context.Background(), uuid.New(), st.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Delete(context.Background(), owner, st.ID); err != nil {
		t.Fatalf("owner Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), owner, st.ID); !errors.Is(err, ErrStoryNotFound) {
		t.Fatalf("expected ErrStoryNotFound after delete, got %v", err)
	}
}

func TestListByAuthorHidesPrivateFromStrangers(t *testing.T) {
	svc := NewService(newStubRepo())
	owner := uuid.New()
	create(t, svc, owner, true)
	create(t, svc, owner, false)

	asOwner, err := svc.ListByAuthor(context.Background(), owner, owner, pagination.Params{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListByAuthor as owner: %v", err)
	}
	if asOwner.TotalItems != 2 {
		t.Errorf("owner sees %d stories, want 2", asOwner.TotalItems)
	}

	asStranger, err := svc.ListByAuthor(context.Background(), uuid.New(), owner, pagination.Params{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListByAuthor as stranger: %v", err)
	}
	if asStranger.TotalItems != 1 {
		t.Errorf("stranger sees %d stories, want 1", asStranger.TotalItems)
	}
}

func TestListPublicPaginates(t *testing.T) {
	svc := NewService(newStubRepo())
	author := uuid.New()
	for i := 0; i < 13; i++ {
		create(t, svc, author, true)
	}
	create(t, svc, author, false)

	page, err := svc.ListPublic(context.Background(), pagination.Params{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if page.TotalItems != 13 || page.TotalPages != 2 {
		t.Errorf("totals = %d items / %d pages, want 13 / 2", page.TotalItems, page.TotalPages)
	}
	if len(page.Items) != 3 {
		t.Errorf("page 2 has %d items, want 3", len(page.Items))
	}
}
