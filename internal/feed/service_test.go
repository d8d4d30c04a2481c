package feed

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed-service/internal/apperr"
	"newsfeed-service/internal/store"
)

// fakeStore serves posts from memory with the same ordering contract as
// the document store: created_at DESC, id DESC.
type fakeStore struct {
	posts     []store.PostSummary
	deleted   map[string]bool
	followees map[string][]string

	findErr   error
	countErr  error
	followErr error

	findCalls int
}

func (f *fakeStore) matching(authorIDs []string, excludeDeleted bool) []store.PostSummary {
	in := map[string]bool{}
	for _, id := range authorIDs {
		in[id] = true
	}
	var out []store.PostSummary
	for _, p := range f.posts {
		if !in[p.AuthorID] {
			continue
		}
		if excludeDeleted && f.deleted[p.ID] {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f *fakeStore) FindPostsByAuthorSet(_ context.Context, authorIDs []string, excludeDeleted bool, skip, limit int64) ([]store.PostSummary, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := f.matching(authorIDs, excludeDeleted)
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) CountPostsByAuthorSet(_ context.Context, authorIDs []string, excludeDeleted bool) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.matching(authorIDs, excludeDeleted))), nil
}

func (f *fakeStore) FindFolloweeIDs(_ context.Context, followerID string) ([]string, error) {
	if f.followErr != nil {
		return nil, f.followErr
	}
	return f.followees[followerID], nil
}

func (f *fakeStore) FindPostByID(context.Context, string, bool) (*store.Post, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) AggregateTrendingCandidates(context.Context) ([]store.PostSummary, error) {
	return nil, nil
}

func (f *fakeStore) IncrementPostCounter(context.Context, string, string, int64) error {
	return nil
}

type fakeCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	b, ok := c.data[key]
	return b, ok, nil
}

func (c *fakeCache) SetTTL(_ context.Context, key string, val []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = val
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func ts(daysAgo int) time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo)
}

func post(id, author string, at time.Time) store.PostSummary {
	return store.PostSummary{ID: id, AuthorID: author, Content: "post " + id, CreatedAt: at}
}

func TestGetFeedValidation(t *testing.T) {
	svc := NewService(&fakeStore{}, newFakeCache())
	ctx := context.Background()

	for _, tc := range []struct {
		name     string
		viewer   string
		page     int
		pageSize int
	}{
		{"empty viewer", "", 1, 10},
		{"zero page", "u1", 0, 10},
		{"negative page", "u1", -3, 10},
		{"zero page size", "u1", 1, 0},
		{"page size above max", "u1", 1, 101},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GetFeed(ctx, tc.viewer, tc.page, tc.pageSize)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
		})
	}
}

func TestGetFeedVisibilityAndDeletedPosts(t *testing.T) {
	// viewer follows a and b; a has 2 live posts, b only a deleted one.
	st := &fakeStore{
		posts: []store.PostSummary{
			post("p1", "viewer", ts(1)),
			post("p2", "a", ts(2)),
			post("p3", "a", ts(3)),
			post("p4", "b", ts(4)),
			post("p5", "stranger", ts(0)),
		},
		deleted:   map[string]bool{"p4": true},
		followees: map[string][]string{"viewer": {"a", "b"}},
	}
	svc := NewService(st, newFakeCache())

	page, err := svc.GetFeed(context.Background(), "viewer", 1, 10)
	require.NoError(t, err)

	assert.EqualValues(t, 3, page.TotalItems)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasMore)
	require.Len(t, page.Items, 3)
	for _, it := range page.Items {
		assert.NotEqual(t, "p4", it.PostID, "deleted post must be excluded")
		assert.NotEqual(t, "stranger", it.AuthorID, "unfollowed author must be excluded")
	}
	assert.Equal(t, []string{"p1", "p2", "p3"}, []string{page.Items[0].PostID, page.Items[1].PostID, page.Items[2].PostID})
}

func TestGetFeedToleratesSelfFollowEdge(t *testing.T) {
	st := &fakeStore{
		posts:     []store.PostSummary{post("p1", "viewer", ts(1))},
		followees: map[string][]string{"viewer": {"viewer"}},
	}
	svc := NewService(st, newFakeCache())

	page, err := svc.GetFeed(context.Background(), "viewer", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalItems, "self-follow edge must not double-count")
	require.Len(t, page.Items, 1)
}

func TestGetFeedPagination(t *testing.T) {
	st := &fakeStore{followees: map[string][]string{"viewer": nil}}
	for i := 0; i < 7; i++ {
		st.posts = append(st.posts, post(string(rune('a'+i)), "viewer", ts(i)))
	}
	svc := NewService(st, newFakeCache())
	ctx := context.Background()

	p1, err := svc.GetFeed(ctx, "viewer", 1, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 7, p1.TotalItems)
	assert.Equal(t, 3, p1.TotalPages)
	assert.True(t, p1.HasMore)
	assert.Len(t, p1.Items, 3)

	p3, err := svc.GetFeed(ctx, "viewer", 3, 3)
	require.NoError(t, err)
	assert.False(t, p3.HasMore)
	assert.Len(t, p3.Items, 1)

	p4, err := svc.GetFeed(ctx, "viewer", 4, 3)
	require.NoError(t, err)
	assert.Empty(t, p4.Items, "pages past the end are empty, not errors")
	assert.False(t, p4.HasMore)
}

func TestGetFeedEmpty(t *testing.T) {
	svc := NewService(&fakeStore{followees: map[string][]string{"viewer": nil}}, newFakeCache())

	page, err := svc.GetFeed(context.Background(), "viewer", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.TotalItems)
	assert.Equal(t, 0, page.TotalPages)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.Items)
}

func TestGetFeedStableTieBreak(t *testing.T) {
	same := ts(1)
	st := &fakeStore{
		posts: []store.PostSummary{
			post("p1", "viewer", same),
			post("p2", "viewer", same),
			post("p3", "viewer", same),
		},
		followees: map[string][]string{"viewer": nil},
	}
	svc := NewService(st, newFakeCache())
	ctx := context.Background()

	first, err := svc.GetFeed(ctx, "viewer", 1, 10)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.GetFeed(ctx, "viewer", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, first.Items, again.Items, "identical timestamps must not flap between calls")
	}
}

func TestGetFeedIdempotentAndCached(t *testing.T) {
	st := &fakeStore{
		posts:     []store.PostSummary{post("p1", "viewer", ts(1))},
		followees: map[string][]string{"viewer": nil},
	}
	c := newFakeCache()
	svc := NewService(st, c)
	ctx := context.Background()

	first, err := svc.GetFeed(ctx, "viewer", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, st.findCalls)

	second, err := svc.GetFeed(ctx, "viewer", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, st.findCalls, "second call must be served from cache")
}

func TestGetFeedCacheErrorsDegradeToRecompute(t *testing.T) {
	st := &fakeStore{
		posts:     []store.PostSummary{post("p1", "viewer", ts(1))},
		followees: map[string][]string{"viewer": nil},
	}
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	c.setErr = errors.New("redis down")
	svc := NewService(st, c)

	page, err := svc.GetFeed(context.Background(), "viewer", 1, 10)
	require.NoError(t, err, "cache unavailability must not fail the request")
	assert.Len(t, page.Items, 1)
}

func TestGetFeedStoreFailures(t *testing.T) {
	t.Run("follow edges unresolvable", func(t *testing.T) {
		st := &fakeStore{followErr: errors.New("store down")}
		svc := NewService(st, newFakeCache())
		_, err := svc.GetFeed(context.Background(), "viewer", 1, 10)
		require.Error(t, err)
		assert.Equal(t, apperr.KindDependencyUnavailable, apperr.KindOf(err))
	})

	t.Run("post query fails", func(t *testing.T) {
		st := &fakeStore{
			followees: map[string][]string{"viewer": nil},
			findErr:   errors.New("store down"),
		}
		svc := NewService(st, newFakeCache())
		_, err := svc.GetFeed(context.Background(), "viewer", 1, 10)
		require.Error(t, err)
		assert.Equal(t, apperr.KindDependencyUnavailable, apperr.KindOf(err))
	})

	t.Run("count fails", func(t *testing.T) {
		st := &fakeStore{
			followees: map[string][]string{"viewer": nil},
			countErr:  errors.New("store down"),
		}
		svc := NewService(st, newFakeCache())
		_, err := svc.GetFeed(context.Background(), "viewer", 1, 10)
		require.Error(t, err)
		assert.Equal(t, apperr.KindDependencyUnavailable, apperr.KindOf(err))
	})
}
