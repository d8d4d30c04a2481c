package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"newsfeed-service/internal/apperr"
	"newsfeed-service/internal/cache"
	"newsfeed-service/internal/metrics"
	"newsfeed-service/internal/store"
)

type Service interface {
	// GetFeed returns the paginated, time-ordered posts authored by
	// viewerID or anyone viewerID follows. Pure read; may populate the
	// page cache as a side effect.
	GetFeed(ctx context.Context, viewerID string, page, pageSize int) (*Page, error)
}

type service struct {
	store    store.Store
	cache    cache.Cache
	cacheTTL time.Duration
	maxPage  int
}

type Option func(*service)

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *service) { s.cacheTTL = ttl }
}

func WithMaxPageSize(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.maxPage = n
		}
	}
}

func NewService(st store.Store, c cache.Cache, opts ...Option) Service {
	s := &service{
		store:    st,
		cache:    c,
		cacheTTL: time.Minute,
		maxPage:  100,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *service) GetFeed(ctx context.Context, viewerID string, page, pageSize int) (*Page, error) {
	if viewerID == "" {
		return nil, apperr.InvalidArgument("viewer id is required")
	}
	if page < 1 {
		return nil, apperr.InvalidArgument(fmt.Sprintf("page must be >= 1, got %d", page))
	}
	if pageSize < 1 || pageSize > s.maxPage {
		return nil, apperr.InvalidArgument(fmt.Sprintf("page size must be in 1..%d, got %d", s.maxPage, pageSize))
	}

	key := cache.FeedKey(viewerID, page, pageSize)
	if b, ok, err := s.cache.Get(ctx, key); err != nil {
		// Cache trouble degrades to a recomputation, never a failure.
		log.Printf("feed: cache get %s: %v", key, err)
		metrics.CacheMisses.WithLabelValues("feed").Inc()
	} else if ok {
		var cached Page
		if json.Unmarshal(b, &cached) == nil {
			metrics.CacheHits.WithLabelValues("feed").Inc()
			return &cached, nil
		}
		metrics.CacheMisses.WithLabelValues("feed").Inc()
	} else {
		metrics.CacheMisses.WithLabelValues("feed").Inc()
	}

	authors, err := s.visibleAuthors(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	total, err := s.store.CountPostsByAuthorSet(ctx, authors, true)
	if err != nil {
		return nil, apperr.DependencyUnavailable("count posts", err)
	}

	skip := int64(page-1) * int64(pageSize)
	summaries, err := s.store.FindPostsByAuthorSet(ctx, authors, true, skip, int64(pageSize))
	if err != nil {
		return nil, apperr.DependencyUnavailable("find posts", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	result := &Page{
		Items:      make([]Item, 0, len(summaries)),
		Page:       page,
		TotalPages: totalPages,
		TotalItems: total,
		HasMore:    page < totalPages,
	}
	for _, p := range summaries {
		result.Items = append(result.Items, itemFromSummary(p))
	}

	if b, err := json.Marshal(result); err == nil {
		// Best-effort population; a write failure never fails the read.
		if err := s.cache.SetTTL(ctx, key, b, s.cacheTTL); err != nil {
			log.Printf("feed: cache set %s: %v", key, err)
		}
	}
	return result, nil
}

// visibleAuthors is the viewer plus everyone the viewer follows,
// deduplicated so a stray self-follow edge cannot skew pagination.
func (s *service) visibleAuthors(ctx context.Context, viewerID string) ([]string, error) {
	followees, err := s.store.FindFolloweeIDs(ctx, viewerID)
	if err != nil {
		return nil, apperr.DependencyUnavailable("resolve follow edges", err)
	}
	seen := map[string]struct{}{viewerID: {}}
	authors := []string{viewerID}
	for _, id := range followees {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		authors = append(authors, id)
	}
	return authors, nil
}
