package post

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"newsfeed-service/internal/apperr"
	"newsfeed-service/internal/cache"
	"newsfeed-service/internal/metrics"
	"newsfeed-service/internal/store"
)

type Service interface {
	// GetPost is a cache-aside point read. Soft-deleted posts are only
	// visible to admins that ask for them explicitly.
	GetPost(ctx context.Context, id string, includeDeleted, admin bool) (*store.Post, error)
}

type service struct {
	store    store.Store
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewService(st store.Store, c cache.Cache, cacheTTL time.Duration) Service {
	return &service{store: st, cache: c, cacheTTL: cacheTTL}
}

func (s *service) GetPost(ctx context.Context, id string, includeDeleted, admin bool) (*store.Post, error) {
	if id == "" {
		return nil, apperr.InvalidArgument("post id is required")
	}
	if includeDeleted && !admin {
		return nil, apperr.Forbidden("only admins may read deleted posts")
	}

	key := cache.PostKey(id)
	if !includeDeleted {
		if b, ok, err := s.cache.Get(ctx, key); err != nil {
			log.Printf("post: cache get %s: %v", key, err)
			metrics.CacheMisses.WithLabelValues("post").Inc()
		} else if ok {
			var cached store.Post
			if json.Unmarshal(b, &cached) == nil {
				metrics.CacheHits.WithLabelValues("post").Inc()
				return &cached, nil
			}
			metrics.CacheMisses.WithLabelValues("post").Inc()
		} else {
			metrics.CacheMisses.WithLabelValues("post").Inc()
		}
	}

	p, err := s.store.FindPostByID(ctx, id, includeDeleted)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("post not found")
	}
	if err != nil {
		return nil, apperr.DependencyUnavailable("find post", err)
	}

	// Only live posts are cached; a deleted document must never be
	// servable to regular readers from the cache.
	if !p.Deleted {
		if b, err := json.Marshal(p); err == nil {
			if err := s.cache.SetTTL(ctx, key, b, s.cacheTTL); err != nil {
				log.Printf("post: cache set %s: %v", key, err)
			}
		}
	}
	return p, nil
}
