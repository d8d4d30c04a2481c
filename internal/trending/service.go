package trending

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"newsfeed-service/internal/apperr"
	"newsfeed-service/internal/cache"
	"newsfeed-service/internal/metrics"
	"newsfeed-service/internal/store"
)

const millisPerDay = 86400000

// Score is the engagement score used to rank posts. The age boost is a
// linear recency decay: age in days, negated, so newer posts score
// higher. Kept byte-for-byte compatible with the historical formula.
func Score(likeCount, commentCount int64, createdAt, now time.Time) float64 {
	ageBoost := float64(now.UnixMilli()-createdAt.UnixMilli()) / (-millisPerDay)
	return float64(likeCount)*3 + float64(commentCount)*2 + ageBoost
}

type RankedPost struct {
	PostID       string    `json:"post_id"`
	AuthorID     string    `json:"author_id"`
	Content      string    `json:"content"`
	MediaURL     string    `json:"media_url,omitempty"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	Score        float64   `json:"score"`
}

type Service interface {
	// GetTrending ranks the global non-deleted post set by engagement
	// score and returns the top limit entries. Results are cached for a
	// fixed window and served verbatim until expiry.
	GetTrending(ctx context.Context, limit int) ([]RankedPost, error)
}

type service struct {
	store    store.Store
	cache    cache.Cache
	cacheTTL time.Duration
	maxLimit int
	now      func() time.Time

	// Collapses concurrent recomputes of the same key into one
	// aggregation; losers share the winner's result.
	group singleflight.Group
}

type Option func(*service)

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *service) { s.cacheTTL = ttl }
}

func WithNow(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(st store.Store, c cache.Cache, opts ...Option) Service {
	s := &service{
		store:    st,
		cache:    c,
		cacheTTL: 5 * time.Minute,
		maxLimit: 100,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *service) GetTrending(ctx context.Context, limit int) ([]RankedPost, error) {
	if limit < 1 || limit > s.maxLimit {
		return nil, apperr.InvalidArgument(fmt.Sprintf("limit must be in 1..%d, got %d", s.maxLimit, limit))
	}

	key := cache.TrendingKey(limit)
	if b, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Printf("trending: cache get %s: %v", key, err)
		metrics.CacheMisses.WithLabelValues("trending").Inc()
	} else if ok {
		var cached []RankedPost
		if json.Unmarshal(b, &cached) == nil {
			metrics.CacheHits.WithLabelValues("trending").Inc()
			return cached, nil
		}
		metrics.CacheMisses.WithLabelValues("trending").Inc()
	} else {
		metrics.CacheMisses.WithLabelValues("trending").Inc()
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.recompute(ctx, key, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([]RankedPost), nil
}

func (s *service) recompute(ctx context.Context, key string, limit int) ([]RankedPost, error) {
	candidates, err := s.store.AggregateTrendingCandidates(ctx)
	if err != nil {
		// No empty-list fallback: callers must be able to tell "nothing
		// is trending" apart from "ranking failed".
		return nil, apperr.DependencyUnavailable("aggregate trending candidates", err)
	}

	now := s.now()
	ranked := make([]RankedPost, 0, len(candidates))
	for _, p := range candidates {
		ranked = append(ranked, RankedPost{
			PostID:       p.ID,
			AuthorID:     p.AuthorID,
			Content:      p.Content,
			MediaURL:     p.MediaURL,
			LikeCount:    p.LikeCount,
			CommentCount: p.CommentCount,
			CreatedAt:    p.CreatedAt,
			Score:        Score(p.LikeCount, p.CommentCount, p.CreatedAt, now),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].PostID < ranked[j].PostID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	if b, err := json.Marshal(ranked); err == nil {
		if err := s.cache.SetTTL(ctx, key, b, s.cacheTTL); err != nil {
			log.Printf("trending: cache set %s: %v", key, err)
		}
	}
	return ranked, nil
}
