// Package cachepolicy decides which cache entries a mutation must
// invalidate. Only the single-post key is invalidated eagerly; feed,
// listing and trending pages are left to TTL expiry because deleting
// every combinatorial page key on each mutation costs more than the
// bounded staleness it would buy.
package cachepolicy

import (
	"context"

	"newsfeed-service/internal/cache"
	"newsfeed-service/internal/metrics"
)

type Mutation string

const (
	MutationEdit       Mutation = "edit"
	MutationSoftDelete Mutation = "delete"
	MutationLike       Mutation = "like"
	MutationUnlike     Mutation = "unlike"
	MutationComment    Mutation = "comment"
)

type Policy struct {
	cache cache.Cache
}

func New(c cache.Cache) *Policy {
	return &Policy{cache: c}
}

// OnPostMutation applies the invalidation rules for one acknowledged
// store write. Callers must invoke it after the write is durable,
// never before, or a racing reader can repopulate the key with the
// pre-write document.
func (p *Policy) OnPostMutation(ctx context.Context, postID string, m Mutation) error {
	switch m {
	case MutationEdit, MutationSoftDelete, MutationLike, MutationUnlike, MutationComment:
		return p.InvalidatePost(ctx, postID)
	default:
		// Unknown mutations invalidate nothing; TTL covers them.
		return nil
	}
}

// InvalidatePost drops the single-post cache entry. Deleting an absent
// key is a no-op, so repeated invalidations are safe.
func (p *Policy) InvalidatePost(ctx context.Context, postID string) error {
	if postID == "" {
		return nil
	}
	if err := p.cache.Delete(ctx, cache.PostKey(postID)); err != nil {
		return err
	}
	metrics.Invalidations.Inc()
	return nil
}
