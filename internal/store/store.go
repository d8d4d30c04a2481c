// Package store is the boundary to the entity store. The core never
// talks to the document database directly; it consumes this interface
// so feed assembly and ranking stay testable against fakes.
package store

import "context"

type Store interface {
	// FindPostsByAuthorSet returns posts authored by any of authorIDs,
	// newest first with the post id as secondary sort key so pages never
	// flap between calls when timestamps collide.
	FindPostsByAuthorSet(ctx context.Context, authorIDs []string, excludeDeleted bool, skip, limit int64) ([]PostSummary, error)

	// CountPostsByAuthorSet counts the same filter FindPostsByAuthorSet reads.
	CountPostsByAuthorSet(ctx context.Context, authorIDs []string, excludeDeleted bool) (int64, error)

	// FindFolloweeIDs resolves the followee side of the viewer's follow edges.
	FindFolloweeIDs(ctx context.Context, followerID string) ([]string, error)

	// FindPostByID returns ErrNotFound when the id is absent, or when the
	// post is soft-deleted and includeDeleted is false.
	FindPostByID(ctx context.Context, id string, includeDeleted bool) (*Post, error)

	// AggregateTrendingCandidates returns every non-deleted post with the
	// counters the ranker scores on.
	AggregateTrendingCandidates(ctx context.Context) ([]PostSummary, error)

	// IncrementPostCounter applies an atomic delta to like_count or
	// comment_count. Counters are never read-modify-written.
	IncrementPostCounter(ctx context.Context, id, field string, delta int64) error
}
