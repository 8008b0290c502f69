package comment

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pagewise/pagewise-api/internal/domain/account"
	"github.com/pagewise/pagewise-api/internal/domain/story"
	"github.com/pagewise/pagewise-api/internal/pkg/pagination"
)

type stubStore struct {
	comments map[uuid.UUID]*Comment
	clock    time.Time
}

func newStubStore() *stubStore {
	return &stubStore{
		comments: make(map[uuid.UUID]*Comment),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *stubStore) Create(_ context.Context, c *Comment) error {
	s.clock = s.clock.Add(time.Second)
	c.CreatedAt = s.clock
	c.UpdatedAt = s.clock
	clone := *c
	s.comments[c.ID] = &clone
	return nil
}

func (s *stubStore) GetByID(_ context.Context, id uuid.UUID) (*Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (s *stubStore) ListRoots(_ context.Context, storyID uuid.UUID, limit, offset int) ([]*Comment, int, error) {
	roots := []*Comment{}
	for _, c := range s.comments {
		if c.StoryID == storyID && !c.IsReply() {
			roots = append(roots, c)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].CreatedAt.After(roots[j].CreatedAt) })

	total := len(roots)
	if offset >= total {
		return []*Comment{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return roots[offset:end], total, nil
}

func (s *stubStore) ListReplies(_ context.Context, parentID uuid.UUID, limit int) ([]*Comment, error) {
	replies := []*Comment{}
	for _, c := range s.comments {
		if c.ParentID.Valid && c.ParentID.UUID == parentID {
			replies = append(replies, c)
		}
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].CreatedAt.Before(replies[j].CreatedAt) })
	if len(replies) > limit {
		replies = replies[:limit]
	}
	return replies, nil
}

func (s *stubStore) DeleteWithReplies(_ context.Context, id uuid.UUID) error {
	if _, ok := s.comments[id]; !ok {
		return ErrCommentNotFound
	}
	for cid, c := range s.comments {
		if cid == id || (c.ParentID.Valid && c.ParentID.UUID == id) {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *stubStore) CountByStory(_ context.Context, storyID uuid.UUID) (int, error) {
	count := 0
	for _, c := range s.comments {
		if c.StoryID == storyID {
			count++
		}
	}
	return count, nil
}

type stubStories struct {
	stories map[uuid.UUID]*story.Story
}

func (s *stubStories) GetByID(_ context.Context, id uuid.UUID) (*story.Story, error) {
	return s.stories[id], nil
}

type stubAccounts struct{}

func (stubAccounts) ListSummariesByIDs(_ context.Context, ids []uuid.UUID, limit, offset int) ([]*account.Summary, error) {
	out := make([]*account.Summary, 0, len(ids))
	for _, id := range ids {
		out = append(out, &account.Summary{ID: id, Nickname: "reader_" + id.String()[:8]})
	}
	return out, nil
}

func newTestService() (*Service, *stubStore, *stubStories) {
	store := newStubStore()
	stories := &stubStories{stories: make(map[uuid.UUID]*story.Story)}
	return NewService(store, stories, stubAccounts{}), store, stories
}

func addStory(stories *stubStories, authorID uuid.UUID, public bool) uuid.UUID {
	id := uuid.New()
	stories.stories[id] = &story.Story{ID: id, AuthorID: authorID, IsPublic: public}
	return id
}

func TestCreateRootComment(t *testing.T) {
	svc, _, stories := newTestService()
	author := uuid.New()
	storyID := addStory(stories, uuid.New(), true)

	resp, err := svc.Create(context.Background(), author, &CreateRequest{StoryID: storyID, Content: "loved this quote"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.ParentID != nil {
		t.Errorf("root comment should have no parent, got %v", resp.ParentID)
	}
	if resp.Author == nil || resp.Author.ID != author {
		t.Errorf("author summary not attached: %+v", resp.Author)
	}
}

func TestCreateOnMissingStory(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: uuid.New(), Content: "hello"})
	if !errors.Is(err, ErrStoryNotFound) {
		t.Fatalf("expected ErrStoryNotFound, got %v", err)
	}
}

func TestCreateOnPrivateStoryByStranger(t *testing.T) {
	svc, _, stories := newTestService()
	owner := uuid.New()
	storyID := addStory(stories, owner, false)

	if _, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyID, Content: "hi"}); !errors.Is(err, ErrStoryNotFound) {
		t.Fatalf("stranger on private story: expected ErrStoryNotFound, got %v", err)
	}

	if _, err := svc.Create(context.Background(), owner, &CreateRequest{StoryID: storyID, Content: "note to self"}); err != nil {
		t.Fatalf("owner on private story: %v", err)
	}
}

func TestCreateReply(t *testing.T) {
	svc, _, stories := newTestService()
	storyID := addStory(stories, uuid.New(), true)

	root, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyID, Content: "root"})
	if err != nil {
		t.Fatalf("Create root: %v", err)
	}

	reply, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyID, Content: "reply", ParentID: &root.ID})
	if err != nil {
		t.Fatalf("Create reply: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != root.ID {
		t.Errorf("reply parent = %v, want %s", reply.ParentID, root.ID)
	}
}

func TestCreateReplyToReplyRejected(t *testing.T) {
	svc, _, stories := newTestService()
	storyID := addStory(stories, uuid.New(), true)

	root, _ := svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyID, Content: "root"})
	reply, _ := svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyID, Content: "reply", ParentID: &root.ID})

	_, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyID, Content: "nested", ParentID: &reply.ID})
	if !errors.Is(err, ErrNestedReply) {
		t.Fatalf("expected ErrNestedReply, got %v", err)
	}
}

func TestCreateReplyOnWrongStory(t *testing.T) {
	svc, _, stories := newTestService()
	storyA := addStory(stories, uuid.New(), true)
	storyB := addStory(stories, uuid.New(), true)

	root, _ := svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyA, Content: "root"})

	_, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyB, Content: "misplaced", ParentID: &root.ID})
	if !errors.Is(err, ErrParentMismatch) {
		t.Fatalf("expected ErrParentMismatch, got %v", err)
	}
}

func TestCreateReplyToMissingParent(t *testing.T) {
	svc, _, stories := newTestService()
	storyID := addStory(stories, uuid.New(), true)
	ghost := uuid.New()

	_, err := svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyID, Content: "orphan", ParentID: &ghost})
	if !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound, got %v", err)
	}
}

func TestListByStory(t *testing.T) {
	svc, _, stories := newTestService()
	storyID := addStory(stories, uuid.New(), true)
	author := uuid.New()

	var firstRoot *Response
	for i := 0; i < 12; i++ {
		resp, err := svc.Create(context.Background(), author, &CreateRequest{StoryID: storyID, Content: "root"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if firstRoot == nil {
			firstRoot = resp
		}
	}
	for i := 0; i < 5; i++ {
		if _, err := svc.Create(context.Background(), author, &CreateRequest{StoryID: storyID, Content: "reply", ParentID: &firstRoot.ID}); err != nil {
			t.Fatalf("Create reply: %v", err)
		}
	}

	page, err := svc.ListByStory(context.Background(), uuid.Nil, storyID, pagination.Params{Page: 2, PageSize: 10}, 0)
	if err != nil {
		t.Fatalf("ListByStory: %v", err)
	}
	if page.TotalItems != 12 || page.TotalPages != 2 {
		t.Errorf("totals = %d items / %d pages, want 12 / 2", page.TotalItems, page.TotalPages)
	}
	if len(page.Items) != 2 {
		t.Fatalf("page 2 has %d items, want 2", len(page.Items))
	}

	// the oldest root sorts last and carries the default reply window
	oldest := page.Items[len(page.Items)-1]
	if oldest.ID != firstRoot.ID {
		t.Fatalf("oldest root = %s, want %s", oldest.ID, firstRoot.ID)
	}
	if len(oldest.Replies) != DefaultReplyLimit {
		t.Errorf("reply window = %d, want %d", len(oldest.Replies), DefaultReplyLimit)
	}
}

func TestDeleteCascadesReplies(t *testing.T) {
	svc, store, stories := newTestService()
	storyID := addStory(stories, uuid.New(), true)
	author := uuid.New()

	root, _ := svc.Create(context.Background(), author, &CreateRequest{StoryID: storyID, Content: "root"})
	svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyID, Content: "reply", ParentID: &root.ID})
	svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyID, Content: "reply", ParentID: &root.ID})

	if err := svc.Delete(context.Background(), author, root.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.comments) != 0 {
		t.Errorf("%d comments remain after cascade delete", len(store.comments))
	}
}

func TestDeleteByNonAuthor(t *testing.T) {
	svc, _, stories := newTestService()
	storyID := addStory(stories, uuid.New(), true)

	root, _ := svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyID, Content: "root"})

	if err := svc.Delete(context.Background(), uuid.New(), root.ID); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected ErrNotAuthor, got %v", err)
	}
}

func TestCountByStory(t *testing.T) {
	svc, _, stories := newTestService()
	storyID := addStory(stories, uuid.New(), true)

	root, _ := svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyID, Content: "root"})
	svc.Create(context.Background(), uuid.New(), &CreateRequest{StoryID: storyID, Content: "reply", ParentID: &root.ID})

	count, err := svc.CountByStory(context.Background(), storyID)
	if err != nil {
		t.Fatalf("CountByStory: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}
