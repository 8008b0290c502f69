package relationship

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pagewise/pagewise-api/internal/domain/account"
	"github.com/pagewise/pagewise-api/internal/pkg/pagination"
)

type pairKey struct {
	actor, target uuid.UUID
}

// fakeStore backs both the edge store and the account directory in memory.
// Composite operations apply all-or-nothing, mirroring the transactional
// repository, and edge uniqueness per ordered pair is enforced the same way
// the database constraint does.
type fakeStore struct {
	edges    map[pairKey]*Edge
	accounts map[uuid.UUID]*fakeAccount

	// staleFinds makes FindEdge report NONE for that many calls, simulating
	// a reader that raced ahead of another writer's commit
	staleFinds int
}

type fakeAccount struct {
	nickname  string
	followers []uuid.UUID
	following []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		edges:    map[pairKey]*Edge{},
		accounts: map[uuid.UUID]*fakeAccount{},
	}
}

func (f *fakeStore) addAccount(nickname string) uuid.UUID {
	id := uuid.New()
	f.accounts[id] = &fakeAccount{nickname: nickname}
	return id
}

// Repository implementation

func (f *fakeStore) FindEdge(_ context.Context, actorID, targetID uuid.UUID) (*Edge, error) {
	if f.staleFinds > 0 {
		f.staleFinds--
		return nil, nil
	}
	if e, ok := f.edges[pairKey{actorID, targetID}]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) InsertFollow(_ context.Context, actorID, targetID uuid.UUID) (*Edge, error) {
	key := pairKey{actorID, targetID}
	if _, exists := f.edges[key]; exists {
		return nil, ErrAlreadyFollowing
	}
	now := time.Now()
	f.edges[key] = &Edge{ActorID: actorID, TargetID: targetID, Status: StatusFollowing, CreatedAt: now, UpdatedAt: now}
	f.addToLists(actorID, targetID)
	cp := *f.edges[key]
	return &cp, nil
}

func (f *fakeStore) ReactivateFollow(_ context.Context, actorID, targetID uuid.UUID) (*Edge, error) {
	key := pairKey{actorID, targetID}
	e, ok := f.edges[key]
	if !ok || e.Status != StatusBlocked {
		return nil, ErrEdgeConflict
	}
	e.Status = StatusFollowing
	e.UpdatedAt = time.Now()
	f.addToLists(actorID, targetID)
	cp := *e
	return &cp, nil
}

func (f *fakeStore) DeleteFollow(_ context.Context, actorID, targetID uuid.UUID) error {
	key := pairKey{actorID, targetID}
	e, ok := f.edges[key]
	if !ok || e.Status != StatusFollowing {
		return ErrFollowNotFound
	}
	delete(f.edges, key)
	f.removeFromLists(actorID, targetID)
	return nil
}

func (f *fakeStore) UpsertBlock(_ context.Context, actorID, targetID uuid.UUID) (*Edge, error) {
	key := pairKey{actorID, targetID}
	now := time.Now()
	if e, ok := f.edges[key]; ok {
		e.Status = StatusBlocked
		e.UpdatedAt = now
	} else {
		f.edges[key] = &Edge{ActorID: actorID, TargetID: targetID, Status: StatusBlocked, CreatedAt: now, UpdatedAt: now}
	}
	f.removeFromLists(actorID, targetID)
	cp := *f.edges[key]
	return &cp, nil
}

func (f *fakeStore) DeleteBlock(_ context.Context, actorID, targetID uuid.UUID) (*Edge, error) {
	key := pairKey{actorID, targetID}
	e, ok := f.edges[key]
	if !ok || e.Status != StatusBlocked {
		return nil, ErrBlockNotFound
	}
	delete(f.edges, key)
	cp := *e
	return &cp, nil
}

func (f *fakeStore) FindBlockedBy(_ context.Context, actorID uuid.UUID) ([]*account.Summary, error) {
	out := []*account.Summary{}
	for key, e := range f.edges {
		if key.actor == actorID && e.Status == StatusBlocked {
			if acc, ok := f.accounts[key.target]; ok {
				out = append(out, &account.Summary{ID: key.target, Nickname: acc.nickname})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nickname < out[j].Nickname })
	return out, nil
}

func (f *fakeStore) CountByRole(_ context.Context, accountID uuid.UUID, role Role, status Status) (int, error) {
	n := 0
	for key, e := range f.edges {
		if e.Status != status {
			continue
		}
		if (role == RoleActor && key.actor == accountID) || (role == RoleTarget && key.target == accountID) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) Purge(_ context.Context, accountID uuid.UUID) error {
	for key := range f.edges {
		if key.actor == accountID || key.target == accountID {
			delete(f.edges, key)
		}
	}
	for _, acc := range f.accounts {
		acc.followers = removeID(acc.followers, accountID)
		acc.following = removeID(acc.following, accountID)
	}
	return nil
}

// AccountDirectory implementation

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	acc, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	return &account.Account{
		ID:        id,
		Nickname:  acc.nickname,
		Followers: append([]uuid.UUID{}, acc.followers...),
		Following: append([]uuid.UUID{}, acc.following...),
	}, nil
}

func (f *fakeStore) GetNeighborIDs(_ context.Context, id uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	acc, ok := f.accounts[id]
	if !ok {
		return nil, nil, account.ErrAccountNotFound
	}
	return append([]uuid.UUID{}, acc.followers...), append([]uuid.UUID{}, acc.following...), nil
}

func (f *fakeStore) ListSummariesByIDs(_ context.Context, ids []uuid.UUID, limit, offset int) ([]*account.Summary, error) {
	out := []*account.Summary{}
	for _, id := range ids {
		if acc, ok := f.accounts[id]; ok {
			out = append(out, &account.Summary{ID: id, Nickname: acc.nickname})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nickname < out[j].Nickname })
	if offset > len(out) {
		offset = len(out)
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (f *fakeStore) addToLists(actorID, targetID uuid.UUID) {
	actor := f.accounts[actorID]
	target := f.accounts[targetID]
	if actor != nil && !hasID(actor.following, targetID) {
		actor.following = append(actor.following, targetID)
	}
	if target != nil && !hasID(target.followers, actorID) {
		target.followers = append(target.followers, actorID)
	}
}

func (f *fakeStore) removeFromLists(actorID, targetID uuid.UUID) {
	if actor := f.accounts[actorID]; actor != nil {
		actor.following = removeID(actor.following, targetID)
	}
	if target := f.accounts[targetID]; target != nil {
		target.followers = removeID(target.followers, actorID)
	}
}

func hasID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func newTestService() (*Service, *fakeStore, uuid.UUID, uuid.UUID) {
	store := newFakeStore()
	a := store.addAccount("alice")
	b := store.addAccount("bob")
	return NewService(store, store), store, a, b
}

// assertConsistent checks the dual-representation invariant for one ordered
// pair: target appears in actor.following and actor in target.followers iff
// a FOLLOWING edge exists for the pair.
func assertConsistent(t *testing.T, store *fakeStore, actorID, targetID uuid.UUID) {
	t.Helper()

	edge := store.edges[pairKey{actorID, targetID}]
	wantListed := edge != nil && edge.Status == StatusFollowing

	inFollowing := hasID(store.accounts[actorID].following, targetID)
	inFollowers := hasID(store.accounts[targetID].followers, actorID)

	if inFollowing != wantListed {
		t.Fatalf("actor.following membership = %v, edge FOLLOWING = %v", inFollowing, wantListed)
	}
	if inFollowers != wantListed {
		t.Fatalf("target.followers membership = %v, edge FOLLOWING = %v", inFollowers, wantListed)
	}
}

func TestFollowFromNone(t *testing.T) {
	svc, store, a, b := newTestService()

	snap, err := svc.Follow(context.Background(), a, b)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	edge := store.edges[pairKey{a, b}]
	if edge == nil || edge.Status != StatusFollowing {
		t.Fatalf("expected FOLLOWING edge, got %+v", edge)
	}
	if !hasID(store.accounts[a].following, b) {
		t.Fatal("target missing from actor.following")
	}
	if !hasID(store.accounts[b].followers, a) {
		t.Fatal("actor missing from target.followers")
	}
	if snap.ID != b || snap.Nickname != "bob" {
		t.Fatalf("expected target snapshot, got %+v", snap)
	}
	if !hasID(snap.Followers, a) {
		t.Fatal("snapshot followers missing actor")
	}
	assertConsistent(t, store, a, b)
}

func TestFollowDuplicateConflicts(t *testing.T) {
	svc, store, a, b := newTestService()

	if _, err := svc.Follow(context.Background(), a, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Follow(context.Background(), a, b); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("expected ErrAlreadyFollowing, got %v", err)
	}

	if len(store.edges) != 1 {
		t.Fatalf("expected exactly one edge, got %d", len(store.edges))
	}
	assertConsistent(t, store, a, b)
}

func TestFollowSelfRejected(t *testing.T) {
	svc, _, a, _ := newTestService()

	if _, err := svc.Follow(context.Background(), a, a); !errors.Is(err, ErrSelfRelation) {
		t.Fatalf("expected ErrSelfRelation, got %v", err)
	}
}

func TestBlockSelfRejected(t *testing.T) {
	svc, _, a, _ := newTestService()

	if _, err := svc.SetBlocked(context.Background(), a, a, true); !errors.Is(err, ErrSelfRelation) {
		t.Fatalf("expected ErrSelfRelation, got %v", err)
	}
}

func TestFollowUnknownTarget(t *testing.T) {
	svc, _, a, _ := newTestService()

	if _, err := svc.Follow(context.Background(), a, uuid.New()); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestUnfollowReturnsToNone(t *testing.T) {
	svc, store, a, b := newTestService()
	ctx := context.Background()

	if _, err := svc.Follow(ctx, a, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Unfollow(ctx, a, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, exists := store.edges[pairKey{a, b}]; exists {
		t.Fatal("expected edge deleted")
	}
	assertConsistent(t, store, a, b)

	// Repeating the inverse is a no-op on the final state
	if _, err := svc.Unfollow(ctx, a, b); !errors.Is(err, ErrFollowNotFound) {
		t.Fatalf("expected ErrFollowNotFound, got %v", err)
	}
	assertConsistent(t, store, a, b)
}

func TestUnfollowFromNone(t *testing.T) {
	svc, _, a, b := newTestService()

	if _, err := svc.Unfollow(context.Background(), a, b); !errors.Is(err, ErrFollowNotFound) {
		t.Fatalf("expected ErrFollowNotFound, got %v", err)
	}
}

func TestBlockWhileFollowing(t *testing.T) {
	svc, store, a, b := newTestService()
	ctx := context.Background()

	if _, err := svc.Follow(ctx, a, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	snap, err := svc.SetBlocked(ctx, a, b, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if snap.Status != StatusBlocked {
		t.Fatalf("expected BLOCKED snapshot, got %s", snap.Status)
	}

	edge := store.edges[pairKey{a, b}]
	if edge == nil || edge.Status != StatusBlocked {
		t.Fatalf("expected BLOCKED edge retained, got %+v", edge)
	}
	if hasID(store.accounts[a].following, b) {
		t.Fatal("target still in actor.following after block")
	}
	if hasID(store.accounts[b].followers, a) {
		t.Fatal("actor still in target.followers after block")
	}
	assertConsistent(t, store, a, b)
}

func TestBlockIsIdempotent(t *testing.T) {
	svc, store, a, b := newTestService()
	ctx := context.Background()

	first, err := svc.SetBlocked(ctx, a, b, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := svc.SetBlocked(ctx, a, b, true)
	if err != nil {
		t.Fatalf("expected repeat block to be a no-op, got %v", err)
	}

	if second.Status != StatusBlocked || second.ActorID != first.ActorID {
		t.Fatalf("unexpected snapshot: %+v", second)
	}
	if len(store.edges) != 1 {
		t.Fatalf("expected one edge, got %d", len(store.edges))
	}
}

func TestUnblockReturnsToNone(t *testing.T) {
	svc, store, a, b := newTestService()
	ctx := context.Background()

	if _, err := svc.SetBlocked(ctx, a, b, true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.SetBlocked(ctx, a, b, false); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, exists := store.edges[pairKey{a, b}]; exists {
		t.Fatal("expected block edge deleted")
	}
	// Unblock restores nothing: lists stay empty
	if hasID(store.accounts[a].following, b) || hasID(store.accounts[b].followers, a) {
		t.Fatal("unblock must not touch the cached lists")
	}
	assertConsistent(t, store, a, b)

	if _, err := svc.SetBlocked(ctx, a, b, false); !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestUnblockFromNone(t *testing.T) {
	svc, _, a, b := newTestService()

	if _, err := svc.SetBlocked(context.Background(), a, b, false); !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestFollowReactivatesBlockedPair(t *testing.T) {
	svc, store, a, b := newTestService()
	ctx := context.Background()

	if _, err := svc.Follow(ctx, a, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.SetBlocked(ctx, a, b, true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Follow(ctx, a, b); err != nil {
		t.Fatalf("expected reactivation, got %v", err)
	}

	edge := store.edges[pairKey{a, b}]
	if edge == nil || edge.Status != StatusFollowing {
		t.Fatalf("expected FOLLOWING edge, got %+v", edge)
	}
	assertConsistent(t, store, a, b)
}

func TestFollowLosesRaceToDuplicate(t *testing.T) {
	svc, store, a, b := newTestService()
	ctx := context.Background()

	if _, err := svc.Follow(ctx, a, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// Second caller reads state NONE before the first commit becomes
	// visible to it; the uniqueness constraint decides the race.
	store.staleFinds = 1
	if _, err := svc.Follow(ctx, a, b); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("expected ErrAlreadyFollowing, got %v", err)
	}

	if len(store.edges) != 1 {
		t.Fatalf("expected exactly one edge after race, got %d", len(store.edges))
	}
	assertConsistent(t, store, a, b)
}

func TestCheckStatus(t *testing.T) {
	svc, _, a, b := newTestService()
	ctx := context.Background()

	status, err := svc.CheckStatus(ctx, a, b)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if status.Following || status.Blocked {
		t.Fatalf("expected NONE, got %+v", status)
	}

	if _, err := svc.Follow(ctx, a, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	status, _ = svc.CheckStatus(ctx, a, b)
	if !status.Following || status.Blocked {
		t.Fatalf("expected following only, got %+v", status)
	}

	if _, err := svc.SetBlocked(ctx, a, b, true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	status, _ = svc.CheckStatus(ctx, a, b)
	if status.Following || !status.Blocked {
		t.Fatalf("expected blocked only, got %+v", status)
	}
}

func TestListFollowersSinglePage(t *testing.T) {
	svc, _, a, b := newTestService()
	ctx := context.Background()

	if _, err := svc.Follow(ctx, a, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	page, err := svc.ListFollowers(ctx, b, pagination.Params{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if page.TotalItems != 1 || page.TotalPages != 1 || page.Page != 1 {
		t.Fatalf("unexpected page shape: %+v", page)
	}
	if len(page.Items) != 1 || page.Items[0].ID != a || page.Items[0].Nickname != "alice" {
		t.Fatalf("expected alice as sole follower, got %+v", page.Items)
	}
}

func TestListFollowingPaginates(t *testing.T) {
	store := newFakeStore()
	a := store.addAccount("alice")
	svc := NewService(store, store)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		b := store.addAccount(string(rune('b'+i)) + "-reader")
		if _, err := svc.Follow(ctx, a, b); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	page, err := svc.ListFollowing(ctx, a, pagination.Params{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.TotalItems != 15 || page.TotalPages != 2 || len(page.Items) != 5 {
		t.Fatalf("unexpected second page: total=%d pages=%d items=%d", page.TotalItems, page.TotalPages, len(page.Items))
	}
}

func TestCountsReflectCache(t *testing.T) {
	svc, store, a, b := newTestService()
	ctx := context.Background()

	if _, err := svc.Follow(ctx, a, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	counts, err := svc.Counts(ctx, b)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if counts.FollowersCount != 1 || counts.FollowingCount != 0 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	// Drift induced out-of-band: the cache entry disappears while the edge
	// survives. Counts keeps reporting the cache; nothing reconciles it.
	store.accounts[b].followers = removeID(store.accounts[b].followers, a)

	counts, _ = svc.Counts(ctx, b)
	if counts.FollowersCount != 0 {
		t.Fatalf("counts must reflect the cache, got %d", counts.FollowersCount)
	}
	if e := store.edges[pairKey{a, b}]; e == nil || e.Status != StatusFollowing {
		t.Fatal("edge should still exist, drift is not repaired")
	}
}

func TestListBlocked(t *testing.T) {
	store := newFakeStore()
	a := store.addAccount("alice")
	b := store.addAccount("bob")
	c := store.addAccount("carol")
	svc := NewService(store, store)
	ctx := context.Background()

	if _, err := svc.SetBlocked(ctx, a, c, true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Follow(ctx, a, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	blocked, err := svc.ListBlocked(ctx, a)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(blocked) != 1 || blocked[0].ID != c {
		t.Fatalf("expected only carol blocked, got %+v", blocked)
	}
}

func TestPurgeAccount(t *testing.T) {
	store := newFakeStore()
	a := store.addAccount("alice")
	b := store.addAccount("bob")
	c := store.addAccount("carol")
	svc := NewService(store, store)
	ctx := context.Background()

	if _, err := svc.Follow(ctx, a, b); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Follow(ctx, c, a); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.SetBlocked(ctx, a, c, true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if err := svc.PurgeAccount(ctx, a); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(store.edges) != 0 {
		t.Fatalf("expected all of alice's edges gone, got %d", len(store.edges))
	}
	if hasID(store.accounts[b].followers, a) || hasID(store.accounts[c].following, a) {
		t.Fatal("alice still present in another account's cached lists")
	}
}
